package repository

import (
	"context"

	"github.com/Arijit634/job-management-api/internal/domain"
)

// UserRepository exposes persistence for user accounts.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}

// JobRepository exposes persistence for job posts.
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (domain.JobPost, error)
	List(ctx context.Context) ([]domain.JobPost, error)
	Create(ctx context.Context, job domain.JobPost) (domain.JobPost, error)
	Update(ctx context.Context, job domain.JobPost) (domain.JobPost, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, keyword string) ([]domain.JobPost, error)
}
