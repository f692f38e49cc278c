package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/errors"
	"github.com/pcavett/swatch/internal/palette"
	"github.com/pcavett/swatch/internal/user"
)

// SetInput contains parameters for the Set operation.
type SetInput struct {
	ID           string
	Username     string
	ThemeColor   *string // nil means leave unchanged
	SurfaceColor *string // nil means leave unchanged
}

// SetOutput contains the result of the Set operation.
type SetOutput struct {
	Record user.View `json:"record"`
}

// Set updates the color choices of an existing record.
// At least one color field must be provided.
func Set(ctx context.Context, database *sql.DB, input SetInput) (*SetOutput, error) {
	theme := cleanOptionalString(input.ThemeColor)
	surface := cleanOptionalString(input.SurfaceColor)

	if theme == nil && surface == nil {
		return nil, errors.NewInvalidRequest("at least one of theme_color or surface_color is required")
	}
	for _, token := range []*string{theme, surface} {
		if token != nil && !palette.IsValid(*token) {
			return nil, errors.NewInvalidRequest(
				fmt.Sprintf("invalid color token %q; expected %s", *token, palette.Describe()))
		}
	}

	r, err := resolveRecord(ctx, database, input.ID, input.Username)
	if err != nil {
		return nil, err
	}

	if err := db.UpdateColors(ctx, database, r.ID, db.ColorUpdate{Theme: theme, Surface: surface}); err != nil {
		return nil, err
	}

	updated, err := db.GetByID(ctx, database, r.ID)
	if err != nil {
		return nil, err
	}

	return &SetOutput{Record: updated.ToView()}, nil
}
