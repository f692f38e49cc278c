package ops

import (
	"context"
	"database/sql"

	"github.com/pcavett/swatch/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID       string
	Username string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted  bool   `json:"deleted"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Delete removes a record by ID or username.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	r, err := resolveRecord(ctx, database, input.ID, input.Username)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(ctx, database, r.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted:  true,
		ID:       r.ID,
		Username: r.Username,
	}, nil
}
