package ops

import (
	"context"
	"database/sql"

	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/user"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 50, max: 200
	Offset int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []user.View `json:"items"`
	Pagination Pagination  `json:"pagination"`
	Sort       string      `json:"sort"`
}

// List retrieves record views with pagination, ordered by username.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	offset := max(input.Offset, 0)

	records, total, err := db.List(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]user.View, 0, len(records))
	for i := range records {
		items = append(items, records[i].ToView())
	}

	hasMore := offset+len(items) < total

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "username_asc",
	}, nil
}
