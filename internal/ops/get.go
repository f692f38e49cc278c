package ops

import (
	"context"
	"database/sql"

	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/user"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID       string
	Username string
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	Record    user.View `json:"record"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
}

// Get retrieves a record by ID or username.
func Get(ctx context.Context, database *sql.DB, input GetInput) (*GetOutput, error) {
	r, err := resolveRecord(ctx, database, input.ID, input.Username)
	if err != nil {
		return nil, err
	}

	return &GetOutput{
		Record:    r.ToView(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// resolveRecord fetches a record by exactly one addressing mode.
func resolveRecord(ctx context.Context, database *sql.DB, id, username string) (*user.Record, error) {
	addr, err := ValidateAddress(id, username)
	if err != nil {
		return nil, err
	}

	if addr.ByID {
		return db.GetByID(ctx, database, addr.ID)
	}
	return db.GetByUsername(ctx, database, addr.Username)
}
