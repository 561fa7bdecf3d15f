package googleauth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saifgs/sheetbridge/internal/pkg/cache"
)

// OAuth state parameters carry an explicit method discriminator so the
// callback handler never has to guess which flow a redirect belongs to.
// Format: "<method>.<nonce>", nonce stored server-side with a short TTL.

const stateTTL = 10 * time.Minute

var ErrInvalidState = errors.New("invalid or expired oauth state")

// NewState mints a state parameter for the given method and records its
// nonce.
func NewState(method string) (string, error) {
	nonce := uuid.New().String()
	if err := cache.Set("oauth:state:"+nonce, method, stateTTL); err != nil {
		return "", err
	}
	return method + "." + nonce, nil
}

// ConsumeState verifies a callback's state parameter and returns the method
// it was minted for. States are single-use.
func ConsumeState(state string) (string, error) {
	method, nonce, ok := strings.Cut(state, ".")
	if !ok || method == "" || nonce == "" {
		return "", ErrInvalidState
	}
	stored, err := cache.Get("oauth:state:" + nonce)
	if err != nil || stored != method {
		return "", ErrInvalidState
	}
	if err := cache.Delete("oauth:state:" + nonce); err != nil {
		logBestEffort("oauth state cleanup", err)
	}
	return method, nil
}
