package ops

import (
	"context"
	"testing"

	"github.com/pcavett/swatch/internal/errors"
)

// TestBackfill_MixedStore covers the canonical scenario: one deprecated
// token, one absent value, one user-chosen token.
func TestBackfill_MixedStore(t *testing.T) {
	database := setupTestDB(t)
	seedRawRecord(t, database, "01BFA", "ada", stringPtr("blue"), stringPtr("slate-100"))
	seedRawRecord(t, database, "01BFB", "grace", nil, nil)
	seedRawRecord(t, database, "01BFC", "margaret", stringPtr("green-700"), stringPtr("slate-200"))

	out, err := Backfill(context.Background(), database, BackfillInput{})
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}

	if out.Updated != 2 {
		t.Errorf("Updated = %d, want 2", out.Updated)
	}
	if len(out.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(out.Records))
	}
	if out.Message == "" {
		t.Error("Message should not be empty")
	}

	want := map[string]string{
		"ada":      "blue-500",
		"grace":    "blue-500",
		"margaret": "green-700",
	}
	for _, v := range out.Records {
		if v.ThemeColor == nil {
			t.Errorf("%s: ThemeColor is nil after backfill", v.Username)
			continue
		}
		if *v.ThemeColor != want[v.Username] {
			t.Errorf("%s: ThemeColor = %q, want %q", v.Username, *v.ThemeColor, want[v.Username])
		}
	}
}

// TestBackfill_Idempotent verifies that a second run changes nothing and
// reports zero affected records.
func TestBackfill_Idempotent(t *testing.T) {
	database := setupTestDB(t)
	seedRawRecord(t, database, "01BFD", "ada", stringPtr("blue"), nil)
	seedRawRecord(t, database, "01BFE", "grace", nil, nil)

	first, err := Backfill(context.Background(), database, BackfillInput{})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Updated != 2 {
		t.Errorf("first run Updated = %d, want 2", first.Updated)
	}

	second, err := Backfill(context.Background(), database, BackfillInput{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Updated != 0 {
		t.Errorf("second run Updated = %d, want 0", second.Updated)
	}
	if len(second.Records) != len(first.Records) {
		t.Fatalf("record count changed between runs: %d vs %d", len(first.Records), len(second.Records))
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.ID != b.ID || *a.ThemeColor != *b.ThemeColor {
			t.Errorf("record %d changed between runs: %+v vs %+v", i, a, b)
		}
	}
}

// TestBackfill_NonInterference verifies surface colors and user-chosen
// themes are never touched.
func TestBackfill_NonInterference(t *testing.T) {
	database := setupTestDB(t)
	seedRawRecord(t, database, "01BFF", "ada", stringPtr("violet-600"), stringPtr("amber-200"))

	out, err := Backfill(context.Background(), database, BackfillInput{})
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if out.Updated != 0 {
		t.Errorf("Updated = %d, want 0", out.Updated)
	}

	got, err := Get(context.Background(), database, GetInput{ID: "01BFF"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *got.Record.ThemeColor != "violet-600" {
		t.Errorf("ThemeColor = %q, want violet-600", *got.Record.ThemeColor)
	}
	if *got.Record.SurfaceColor != "amber-200" {
		t.Errorf("SurfaceColor = %q, want amber-200", *got.Record.SurfaceColor)
	}
}

func TestBackfill_EmptyStore(t *testing.T) {
	database := setupTestDB(t)

	out, err := Backfill(context.Background(), database, BackfillInput{})
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if out.Updated != 0 {
		t.Errorf("Updated = %d, want 0", out.Updated)
	}
	if len(out.Records) != 0 {
		t.Errorf("Records = %v, want empty", out.Records)
	}
	if out.Message != "No records needed backfilling" {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestBackfill_StoreUnavailable(t *testing.T) {
	database := setupTestDB(t)

	// Simulate a schema problem: the operation must fail with
	// STORE_UNAVAILABLE and no report
	if _, err := database.Exec("DROP TABLE users"); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	out, err := Backfill(context.Background(), database, BackfillInput{})
	if !errors.Is(err, errors.ErrStoreUnavailable) {
		t.Errorf("error = %v, want STORE_UNAVAILABLE", err)
	}
	if out != nil {
		t.Errorf("output should be nil on failure, got %+v", out)
	}
}

// TestBackfill_CountAccuracy verifies Updated equals the number of records
// whose theme actually changed.
func TestBackfill_CountAccuracy(t *testing.T) {
	database := setupTestDB(t)
	seedRawRecord(t, database, "01BCA", "a", stringPtr("blue"), nil)
	seedRawRecord(t, database, "01BCB", "b", stringPtr("blue"), nil)
	seedRawRecord(t, database, "01BCC", "c", nil, nil)
	seedRawRecord(t, database, "01BCD", "d", stringPtr("blue-500"), nil) // already canonical
	seedRawRecord(t, database, "01BCE", "e", stringPtr("red-500"), nil)

	out, err := Backfill(context.Background(), database, BackfillInput{})
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if out.Updated != 3 {
		t.Errorf("Updated = %d, want 3", out.Updated)
	}
}
