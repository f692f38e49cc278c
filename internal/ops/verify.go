package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/palette"
	"github.com/pcavett/swatch/internal/user"
)

// VerifyInput contains parameters for the Verify operation.
type VerifyInput struct {
	IncludeRecords bool // include the offending records in the output
}

// VerifyOutput contains the result of the Verify operation.
type VerifyOutput struct {
	Total      int         `json:"total"`
	Canonical  int         `json:"canonical"`
	Absent     int         `json:"absent"`
	Deprecated int         `json:"deprecated"`
	Unknown    int         `json:"unknown"`
	Clean      bool        `json:"clean"`
	Offending  []user.View `json:"offending,omitempty"`
	Message    string      `json:"message"`
}

// Verify reports how many records violate the canonical-token invariant
// without mutating anything. A store is clean when every record's
// theme_color is a valid palette token.
func Verify(ctx context.Context, database *sql.DB, input VerifyInput) (*VerifyOutput, error) {
	views, err := db.ListViews(ctx, database)
	if err != nil {
		return nil, err
	}

	out := &VerifyOutput{Total: len(views)}
	for _, v := range views {
		switch {
		case v.ThemeColor == nil:
			out.Absent++
		case palette.IsValid(*v.ThemeColor):
			out.Canonical++
			continue
		case palette.IsLegacy(*v.ThemeColor):
			out.Deprecated++
		default:
			out.Unknown++
		}
		if input.IncludeRecords {
			out.Offending = append(out.Offending, v)
		}
	}

	out.Clean = out.Canonical == out.Total
	if out.Clean {
		out.Message = fmt.Sprintf("All %d records hold valid palette tokens", out.Total)
	} else {
		out.Message = fmt.Sprintf("%d of %d records need backfilling (%d absent, %d deprecated, %d unknown)",
			out.Total-out.Canonical, out.Total, out.Absent, out.Deprecated, out.Unknown)
	}

	return out, nil
}
