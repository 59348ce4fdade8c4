package config

import (
	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds every environment value the service reads. No other
// package should touch os.Getenv directly.
type Config struct {
	AppEnv   string `env:"APP_ENV,default=dev"`
	HttpPort string `env:"PORT,default=8080"`
	GinMode  string `env:"GIN_MODE"`

	DbUser     string `env:"DB_USER,default=root"`
	DbPassword string `env:"DB_PASSWORD"`
	DbHost     string `env:"DB_HOST,default=localhost"`
	DbPort     string `env:"DB_PORT,default=3306"`
	DbName     string `env:"DB_NAME,default=backoffice"`

	RedisAddr string `env:"REDIS_URL,default=localhost:6379"`

	SepehrBaseUrl     string `env:"SEPEHR_BASE_URL"`
	SepehrApiKey      string `env:"SEPEHR_API_KEY"`
	Charter118BaseUrl string `env:"CHARTER118_BASE_URL"`
	Charter118ApiKey  string `env:"CHARTER118_API_KEY"`
	CrsBaseUrl        string `env:"CRS_BASE_URL"`
	CrsApiKey         string `env:"CRS_API_KEY"`

	// Seconds before a provider booking call is abandoned.
	ProviderTimeout int `env:"PROVIDER_TIMEOUT,default=10"`
}

// Load reads .env (when present) and unmarshals the environment.
func Load() (*Config, error) {
	// .env in the working directory first, then the repo root for cmd/ binaries.
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
