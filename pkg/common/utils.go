package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateReference returns an opaque, collision-resistant booking
// confirmation code / transaction reference.
func GenerateReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BK" + id[:10]
}
