package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/symptomlab/triagent/internal/model"
)

// Cache defines the interface for result caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a request. The analyzers are deterministic
// given identical upstream responses, so serving a cached result within the
// TTL is safe for identical requests.
func Key(req model.SymptomRequest) string {
	payload := fmt.Sprintf("%s|%d|%s", req.Symptoms, req.Age, req.Gender)
	hash := sha256.Sum256([]byte(payload))
	return "triagent:v1:" + hex.EncodeToString(hash[:])
}
