package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/errors"
	"github.com/pcavett/swatch/internal/palette"
	"github.com/pcavett/swatch/internal/user"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Username     string  // required
	ThemeColor   *string // optional, defaults to palette.DefaultTheme
	SurfaceColor *string // optional, defaults to palette.DefaultSurface
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Record user.View `json:"record"`
}

// Add creates a new user preference record.
func Add(ctx context.Context, database *sql.DB, input AddInput) (*AddOutput, error) {
	username := user.NormalizeUsername(input.Username)
	if username == "" {
		return nil, errors.NewInvalidRequest("username is required")
	}
	if len(username) > MaxUsernameChars {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("username exceeds %d characters", MaxUsernameChars))
	}

	theme, err := resolveToken(cleanOptionalString(input.ThemeColor), palette.DefaultTheme)
	if err != nil {
		return nil, err
	}
	surface, err := resolveToken(cleanOptionalString(input.SurfaceColor), palette.DefaultSurface)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	r := &user.Record{
		ID:           id,
		Username:     username,
		ThemeColor:   &theme,
		SurfaceColor: &surface,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Insert(ctx, database, r); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewUsernameAlreadyExists(username)
		}
		return nil, err
	}

	return &AddOutput{Record: r.ToView()}, nil
}

// resolveToken validates an optional palette token, falling back to the given
// default when unset.
func resolveToken(token *string, fallback string) (string, error) {
	if token == nil {
		return fallback, nil
	}
	if !palette.IsValid(*token) {
		return "", errors.NewInvalidRequest(
			fmt.Sprintf("invalid color token %q; expected %s", *token, palette.Describe()))
	}
	return *token, nil
}

// generateULID generates a new ULID string.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
