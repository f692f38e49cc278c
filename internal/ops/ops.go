package ops

import (
	"strings"

	"github.com/pcavett/swatch/internal/errors"
	"github.com/pcavett/swatch/internal/user"
)

// Pagination limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	MaxUsernameChars = 64
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Address represents a validated record address.
type Address struct {
	ByID     bool
	ID       string
	Username string // normalized
}

// ValidateAddress validates addressing parameters and returns a normalized Address.
// Rules:
// - Must specify exactly one addressing mode: id OR username
// - If both provided → ErrAmbiguousAddressing
// - If neither provided → ErrInvalidRequest
func ValidateAddress(id, username string) (*Address, error) {
	id = strings.TrimSpace(id)
	username = strings.TrimSpace(username)

	hasID := id != ""
	hasUsername := username != ""

	if hasID && hasUsername {
		return nil, errors.NewAmbiguousAddressing()
	}
	if !hasID && !hasUsername {
		return nil, errors.NewInvalidRequest("must specify either id or username")
	}

	if hasID {
		return &Address{ByID: true, ID: id}, nil
	}

	normalized := user.NormalizeUsername(username)
	if normalized == "" {
		return nil, errors.NewInvalidRequest("username must not be empty")
	}

	return &Address{Username: normalized}, nil
}

// cleanOptionalString trims an optional string, converting whitespace-only
// values to nil.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
