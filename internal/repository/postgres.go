package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arijit634/job-management-api/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository = (*PostgresUserRepo)(nil)
	_ JobRepository  = (*PostgresJobRepo)(nil)
)

// PostgresUserRepo implements UserRepository over pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const selectUserSQL = `SELECT id, username, name, password_hash, created_at, updated_at
FROM users WHERE LOWER(username) = LOWER($1)`

func (r *PostgresUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := r.db.QueryRow(ctx, selectUserSQL, strings.TrimSpace(username)).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, pgx.ErrNoRows
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

const insertUserSQL = `INSERT INTO users (id, username, name, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, username, name, password_hash, created_at, updated_at`

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	var created domain.User
	err := r.db.QueryRow(ctx, insertUserSQL,
		user.ID,
		user.Username,
		user.Name,
		user.PasswordHash,
	).Scan(
		&created.ID,
		&created.Username,
		&created.Name,
		&created.PasswordHash,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// PostgresJobRepo implements JobRepository over pgx.
type PostgresJobRepo struct {
	db *pgxpool.Pool
}

func NewPostgresJobRepo(pool *pgxpool.Pool) *PostgresJobRepo {
	return &PostgresJobRepo{db: pool}
}

const selectJobSQL = `SELECT id, profile, description, req_experience, skills, created_at, updated_at
FROM job_posts WHERE id = $1`

func (r *PostgresJobRepo) GetByID(ctx context.Context, id int64) (domain.JobPost, error) {
	job, err := scanJob(r.db.QueryRow(ctx, selectJobSQL, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.JobPost{}, pgx.ErrNoRows
		}
		return domain.JobPost{}, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

const listJobsSQL = `SELECT id, profile, description, req_experience, skills, created_at, updated_at
FROM job_posts ORDER BY id`

func (r *PostgresJobRepo) List(ctx context.Context) ([]domain.JobPost, error) {
	rows, err := r.db.Query(ctx, listJobsSQL)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

const insertJobSQL = `INSERT INTO job_posts (id, profile, description, req_experience, skills)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	profile = EXCLUDED.profile,
	description = EXCLUDED.description,
	req_experience = EXCLUDED.req_experience,
	skills = EXCLUDED.skills,
	updated_at = NOW()
RETURNING id, profile, description, req_experience, skills, created_at, updated_at`

func (r *PostgresJobRepo) Create(ctx context.Context, job domain.JobPost) (domain.JobPost, error) {
	created, err := scanJob(r.db.QueryRow(ctx, insertJobSQL,
		job.ID,
		job.Profile,
		job.Description,
		job.ReqExperience,
		job.Skills,
	))
	if err != nil {
		return domain.JobPost{}, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

const updateJobSQL = `UPDATE job_posts SET
	profile = $2,
	description = $3,
	req_experience = $4,
	skills = $5,
	updated_at = NOW()
WHERE id = $1
RETURNING id, profile, description, req_experience, skills, created_at, updated_at`

func (r *PostgresJobRepo) Update(ctx context.Context, job domain.JobPost) (domain.JobPost, error) {
	updated, err := scanJob(r.db.QueryRow(ctx, updateJobSQL,
		job.ID,
		job.Profile,
		job.Description,
		job.ReqExperience,
		job.Skills,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.JobPost{}, pgx.ErrNoRows
		}
		return domain.JobPost{}, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

func (r *PostgresJobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const searchJobsSQL = `SELECT id, profile, description, req_experience, skills, created_at, updated_at
FROM job_posts
WHERE profile ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
ORDER BY id`

func (r *PostgresJobRepo) Search(ctx context.Context, keyword string) ([]domain.JobPost, error) {
	rows, err := r.db.Query(ctx, searchJobsSQL, strings.TrimSpace(keyword))
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

func scanJob(row pgx.Row) (domain.JobPost, error) {
	var job domain.JobPost
	err := row.Scan(
		&job.ID,
		&job.Profile,
		&job.Description,
		&job.ReqExperience,
		&job.Skills,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	return job, err
}

func collectJobs(rows pgx.Rows) ([]domain.JobPost, error) {
	jobs := make([]domain.JobPost, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}
