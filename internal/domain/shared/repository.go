package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base contract every persistence adapter implements.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// BranchRepository adds branch-scoped lookups for data that must never
// leak across sucursales (stock, registers, sales).
type BranchRepository[T any] interface {
	Repository[T]
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*T, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter Filter) ([]T, error)
}

// Filter carries pagination, ordering and search options for list queries.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter matches the API list defaults: newest first, 20 per page.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// HasPagination reports whether both page and page size are set. Filters
// without them return the full result set.
func (f Filter) HasPagination() bool {
	return f.Page > 0 && f.PageSize > 0
}

// Offset converts the one-based page into a row offset.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of results together with the counts a client
// needs to render a pager.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated assembles a result page, rounding total pages up. A
// missing page size falls back to the filter default.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = DefaultFilter().PageSize
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (int(total) + pageSize - 1) / pageSize,
	}
}
