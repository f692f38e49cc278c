package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pcavett/swatch/internal/config"
	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/errors"
	"github.com/pcavett/swatch/internal/palette"
	"github.com/pcavett/swatch/internal/user"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on username collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite colors on collision
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Replaced int           `json:"replaced"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents a line-level error that occurred during import.
type ImportError struct {
	Line     int    `json:"line"`
	Username string `json:"username,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Import loads user preference records from a JSONL export file.
// Lines that fail to parse or validate are skipped and reported; records
// that survive validation are applied in a single transaction.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.SwatchError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// First line must be the export header
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.NewInternal(err)
		}
		return nil, errors.NewInvalidRequest("import file is empty")
	}
	var header ExportHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil || !header.SwatchExport {
		return nil, errors.NewInvalidRequest("import file is not a swatch export (missing header line)")
	}
	if header.SchemaVersion != ExportSchemaVersion {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("unsupported export schema version %q (expected %q)", header.SchemaVersion, ExportSchemaVersion))
	}

	var (
		records    []*user.Record
		importErrs []ImportError
		seen       = make(map[string]bool)
		lineNo     = 1
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var e user.ExportRecord
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			importErrs = append(importErrs, ImportError{
				Line:    lineNo,
				Code:    string(errors.ErrInvalidRequest),
				Message: fmt.Sprintf("malformed JSON: %v", err),
			})
			continue
		}

		r, ierr := sanitizeImportRecord(e)
		if ierr != nil {
			ierr.Line = lineNo
			importErrs = append(importErrs, *ierr)
			continue
		}
		if seen[r.Username] {
			importErrs = append(importErrs, ImportError{
				Line:     lineNo,
				Username: r.Username,
				Code:     string(errors.ErrInvalidRequest),
				Message:  "duplicate username within import file",
			})
			continue
		}
		seen[r.Username] = true
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	imported, replaced, err := db.ImportRecords(ctx, database, records, input.Mode == ImportModeReplace)
	if err != nil {
		return nil, err
	}

	return &ImportOutput{
		Imported: imported,
		Replaced: replaced,
		Skipped:  len(importErrs),
		Errors:   importErrs,
	}, nil
}

// sanitizeImportRecord validates one export line and fills in whatever the
// file left out (ID, timestamps).
func sanitizeImportRecord(e user.ExportRecord) (*user.Record, *ImportError) {
	username := user.NormalizeUsername(e.Username)
	if username == "" {
		return nil, &ImportError{
			Code:    string(errors.ErrInvalidRequest),
			Message: "username is required",
		}
	}
	if len(username) > MaxUsernameChars {
		return nil, &ImportError{
			Username: username,
			Code:     string(errors.ErrInvalidRequest),
			Message:  fmt.Sprintf("username exceeds %d characters", MaxUsernameChars),
		}
	}

	for _, token := range []*string{e.ThemeColor, e.SurfaceColor} {
		if token != nil && !palette.IsValid(*token) && !palette.IsLegacy(*token) {
			return nil, &ImportError{
				Username: username,
				Code:     string(errors.ErrInvalidRequest),
				Message:  fmt.Sprintf("invalid color token %q", *token),
			}
		}
	}

	r := user.FromExportRecord(e)
	r.Username = username

	now := time.Now().Unix()
	if r.ID == "" {
		id, err := generateULID()
		if err != nil {
			return nil, &ImportError{
				Username: username,
				Code:     string(errors.ErrInternal),
				Message:  err.Error(),
			}
		}
		r.ID = id
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = now
	}
	if r.UpdatedAt == 0 {
		r.UpdatedAt = now
	}

	return r, nil
}
