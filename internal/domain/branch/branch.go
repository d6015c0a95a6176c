package branch

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested branch does not exist.
	ErrNotFound = errors.New("branch not found")
	// ErrNoneAvailable is returned when no branch can take an order.
	ErrNoneAvailable = errors.New("no branch available")
)

// Branch is a store location that prepares and dispatches orders.
type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Repository defines persistence operations for branches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Branch, error)
	List(ctx context.Context) ([]Branch, error)
	Create(ctx context.Context, b *Branch) error
	Update(ctx context.Context, b *Branch) error
	Delete(ctx context.Context, id string) error
}

// Selector picks the branch that should receive an order when the caller
// did not choose one. The routing policy is deliberately pluggable.
type Selector interface {
	Select(ctx context.Context) (*Branch, error)
}

// FirstAvailable selects the first branch the repository returns. It is a
// stand-in policy until real load-based routing exists.
type FirstAvailable struct {
	repo Repository
}

// NewFirstAvailable returns a Selector backed by the given repository.
func NewFirstAvailable(repo Repository) *FirstAvailable {
	return &FirstAvailable{repo: repo}
}

// Select returns the first listed branch, or ErrNoneAvailable when the
// repository is empty.
func (s *FirstAvailable) Select(ctx context.Context) (*Branch, error) {
	branches, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list branches")
	}
	if len(branches) == 0 {
		return nil, ErrNoneAvailable
	}
	return &branches[0], nil
}
