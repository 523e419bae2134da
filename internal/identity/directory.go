package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Arijit634/job-management-api/internal/domain"
	"github.com/Arijit634/job-management-api/internal/repository"
)

// ErrNotFound means the subject no longer resolves to a known account.
var ErrNotFound = errors.New("principal not found")

// Directory resolves a token subject to the principal that should be bound
// to the request. Implemented by whatever account storage exists outside the
// auth core.
type Directory interface {
	Resolve(ctx context.Context, subject string) (domain.Principal, error)
}

// RepoDirectory resolves principals from the user repository.
type RepoDirectory struct {
	users repository.UserRepository
}

var _ Directory = (*RepoDirectory)(nil)

func NewRepoDirectory(users repository.UserRepository) *RepoDirectory {
	return &RepoDirectory{users: users}
}

// Resolve loads the account for the subject and grants the fixed USER
// authority. Missing accounts map to ErrNotFound.
func (d *RepoDirectory) Resolve(ctx context.Context, subject string) (domain.Principal, error) {
	user, err := d.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Principal{}, ErrNotFound
		}
		return domain.Principal{}, fmt.Errorf("resolve principal: %w", err)
	}
	return domain.Principal{
		Username:    user.Username,
		Name:        user.Name,
		Authorities: []string{domain.AuthorityUser},
	}, nil
}
