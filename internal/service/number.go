package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// numberAttempts bounds the retries on a generated-number collision
const numberAttempts = 3

// generateNumber builds a human-readable reference like ORD-1718041200123-4F9A2C1B.
// Uniqueness is still enforced by the store; collisions are handled by retrying.
func generateNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}
