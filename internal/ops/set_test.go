package ops

import (
	"context"
	"testing"

	"github.com/pcavett/swatch/internal/errors"
)

func TestSet_ThemeOnly(t *testing.T) {
	database := setupTestDB(t)
	id := seedRecord(t, database, "ada", stringPtr("blue-500"), stringPtr("slate-100"))

	out, err := Set(context.Background(), database, SetInput{
		ID:         id,
		ThemeColor: stringPtr("violet-600"),
	})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if *out.Record.ThemeColor != "violet-600" {
		t.Errorf("ThemeColor = %q, want violet-600", *out.Record.ThemeColor)
	}
	if *out.Record.SurfaceColor != "slate-100" {
		t.Errorf("SurfaceColor = %q, want slate-100 (unchanged)", *out.Record.SurfaceColor)
	}
}

func TestSet_ByUsername(t *testing.T) {
	database := setupTestDB(t)
	seedRecord(t, database, "grace", nil, nil)

	out, err := Set(context.Background(), database, SetInput{
		Username:     "Grace",
		SurfaceColor: stringPtr("amber-200"),
	})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if *out.Record.SurfaceColor != "amber-200" {
		t.Errorf("SurfaceColor = %q, want amber-200", *out.Record.SurfaceColor)
	}
}

func TestSet_NoFields(t *testing.T) {
	database := setupTestDB(t)
	id := seedRecord(t, database, "ada", nil, nil)

	_, err := Set(context.Background(), database, SetInput{ID: id})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestSet_InvalidToken(t *testing.T) {
	database := setupTestDB(t)
	id := seedRecord(t, database, "ada", nil, nil)

	_, err := Set(context.Background(), database, SetInput{ID: id, ThemeColor: stringPtr("blue-999")})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestSet_NotFound(t *testing.T) {
	database := setupTestDB(t)

	_, err := Set(context.Background(), database, SetInput{ID: "missing", ThemeColor: stringPtr("blue-500")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestGet_ByIDAndUsername(t *testing.T) {
	database := setupTestDB(t)
	id := seedRecord(t, database, "ada", stringPtr("red-500"), nil)

	out, err := Get(context.Background(), database, GetInput{ID: id})
	if err != nil {
		t.Fatalf("Get by ID failed: %v", err)
	}
	if out.Record.Username != "ada" {
		t.Errorf("Username = %q, want ada", out.Record.Username)
	}
	if out.CreatedAt == 0 || out.UpdatedAt == 0 {
		t.Error("timestamps should be populated")
	}

	out, err = Get(context.Background(), database, GetInput{Username: "ADA"})
	if err != nil {
		t.Fatalf("Get by username failed: %v", err)
	}
	if out.Record.ID != id {
		t.Errorf("ID = %q, want %q", out.Record.ID, id)
	}
}

func TestGet_Ambiguous(t *testing.T) {
	database := setupTestDB(t)

	_, err := Get(context.Background(), database, GetInput{ID: "01X", Username: "ada"})
	if !errors.Is(err, errors.ErrAmbiguousAddressing) {
		t.Errorf("error = %v, want AMBIGUOUS_ADDRESSING", err)
	}
}

func TestDelete_ByID(t *testing.T) {
	database := setupTestDB(t)
	id := seedRecord(t, database, "ada", nil, nil)

	out, err := Delete(context.Background(), database, DeleteInput{ID: id})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted || out.ID != id || out.Username != "ada" {
		t.Errorf("DeleteOutput = %+v", out)
	}

	_, err = Get(context.Background(), database, GetInput{ID: id})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("record should be gone, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	database := setupTestDB(t)

	_, err := Delete(context.Background(), database, DeleteInput{Username: "ghost"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}
