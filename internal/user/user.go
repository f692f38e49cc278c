package user

// Record represents one user's stored color preferences.
type Record struct {
	// ID is a ULID that uniquely identifies this record
	ID string

	// Username is the normalized display identifier (unique per store)
	Username string

	// ThemeColor is the chosen theme palette token (nullable; nil means never set)
	ThemeColor *string

	// SurfaceColor is the chosen surface palette token (nullable)
	SurfaceColor *string

	// CreatedAt is the Unix timestamp when the record was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the record was last updated
	UpdatedAt int64
}

// View is the projection of a record returned by reporting operations.
type View struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	ThemeColor   *string `json:"theme_color"`
	SurfaceColor *string `json:"surface_color"`
}

// ToView projects a record to its reporting view.
func (r *Record) ToView() View {
	return View{
		ID:           r.ID,
		Username:     r.Username,
		ThemeColor:   r.ThemeColor,
		SurfaceColor: r.SurfaceColor,
	}
}

// ExportRecord is the JSONL line format for export/import.
type ExportRecord struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	ThemeColor   *string `json:"theme_color,omitempty"`
	SurfaceColor *string `json:"surface_color,omitempty"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

// ToExportRecord converts a record to its export form.
func ToExportRecord(r *Record) ExportRecord {
	return ExportRecord{
		ID:           r.ID,
		Username:     r.Username,
		ThemeColor:   r.ThemeColor,
		SurfaceColor: r.SurfaceColor,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromExportRecord converts an export line back to a record.
func FromExportRecord(e ExportRecord) *Record {
	return &Record{
		ID:           e.ID,
		Username:     e.Username,
		ThemeColor:   e.ThemeColor,
		SurfaceColor: e.SurfaceColor,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
