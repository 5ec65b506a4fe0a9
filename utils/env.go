package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func LoadEnv() {
	godotenv.Load()
}

func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateOrderNumber builds the human-readable order number:
// ORD-<unix millis>-<random suffix>. Time-prefixed so numbers sort
// roughly by creation, unique thanks to the suffix.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:9]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
