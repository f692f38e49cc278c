package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/palette"
	"github.com/pcavett/swatch/internal/user"
)

// The backfill rewrites exactly one deprecated token. These are constants of
// the operation itself, not configuration: changing them changes what the
// migration means.
//
// A never-set theme and an explicit legacy "blue" are treated the same; both
// end up at the canonical default.
const (
	deprecatedThemeToken  = palette.DeprecatedTheme
	canonicalThemeDefault = palette.DefaultTheme
)

// BackfillInput contains parameters for the Backfill operation.
// The operation is parameterless; the struct exists for symmetry with the
// other operations.
type BackfillInput struct{}

// BackfillOutput contains the result of the Backfill operation.
type BackfillOutput struct {
	Updated int         `json:"updated"`
	Records []user.View `json:"records"`
	Message string      `json:"message"`
}

// Backfill rewrites theme_color to the canonical default for every record
// where it is absent or still holds the deprecated token, in one atomic
// pass, then reports the affected count and a snapshot of all records.
//
// Running it twice yields Updated = 0 on the second run with identical
// record state. Failures surface unmodified; there is no retry.
func Backfill(ctx context.Context, database *sql.DB, _ BackfillInput) (*BackfillOutput, error) {
	count, views, err := db.BackfillThemeDefault(ctx, database, deprecatedThemeToken, canonicalThemeDefault)
	if err != nil {
		return nil, err
	}

	return &BackfillOutput{
		Updated: count,
		Records: views,
		Message: formatBackfillMessage(count),
	}, nil
}

// formatBackfillMessage creates a human-readable message for the backfill result.
func formatBackfillMessage(count int) string {
	if count == 0 {
		return "No records needed backfilling"
	}

	recordWord := "record"
	if count > 1 {
		recordWord = "records"
	}

	return fmt.Sprintf("Backfilled %d %s to theme %q", count, recordWord, canonicalThemeDefault)
}
