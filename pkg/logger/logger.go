package logger

import (
	"os"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger

func init() {
	var cfg zap.Config
	if os.Getenv("LOG_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	log = l.Sugar()
}

func Info(msg string, kv ...any) {
	log.Infow(msg, kv...)
}

func Warn(msg string, kv ...any) {
	log.Warnw(msg, kv...)
}

func Error(msg string, kv ...any) {
	log.Errorw(msg, kv...)
}

func Debug(msg string, kv ...any) {
	log.Debugw(msg, kv...)
}

func Fatal(msg string, kv ...any) {
	log.Fatalw(msg, kv...)
}

func Printf(format string, args ...any) {
	log.Infof(format, args...)
}
