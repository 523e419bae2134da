package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Arijit634/job-management-api/internal/domain"
	"github.com/Arijit634/job-management-api/internal/repository"
)

// ErrJobNotFound is returned when a job post does not exist.
var ErrJobNotFound = errors.New("job post not found")

// JobService manages job posts. Every operation here sits behind the
// authentication middleware; the service itself is authorization-agnostic.
type JobService struct {
	jobs   repository.JobRepository
	node   *snowflake.Node
	logger *zap.Logger
}

// NewJobService wires dependencies.
func NewJobService(jobs repository.JobRepository, node *snowflake.Node, logger *zap.Logger) *JobService {
	return &JobService{jobs: jobs, node: node, logger: logger}
}

// Get returns the job post with the given id.
func (s *JobService) Get(ctx context.Context, id int64) (domain.JobPost, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JobPost{}, ErrJobNotFound
		}
		return domain.JobPost{}, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns all job posts.
func (s *JobService) List(ctx context.Context) ([]domain.JobPost, error) {
	return s.jobs.List(ctx)
}

// Add stores a job post, generating an id when the caller omits one.
func (s *JobService) Add(ctx context.Context, job domain.JobPost) (domain.JobPost, error) {
	if job.ID == 0 {
		job.ID = s.node.Generate().Int64()
	}
	return s.jobs.Create(ctx, job)
}

// Update replaces an existing job post.
func (s *JobService) Update(ctx context.Context, job domain.JobPost) (domain.JobPost, error) {
	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JobPost{}, ErrJobNotFound
		}
		return domain.JobPost{}, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

// Delete removes the job post with the given id.
func (s *JobService) Delete(ctx context.Context, id int64) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// Search returns job posts whose profile or description match the keyword.
func (s *JobService) Search(ctx context.Context, keyword string) ([]domain.JobPost, error) {
	return s.jobs.Search(ctx, keyword)
}

// Seed loads a fixed set of sample job posts for demos and e2e runs.
func (s *JobService) Seed(ctx context.Context) error {
	samples := []domain.JobPost{
		{ID: 1, Profile: "Software Engineer", Description: "Exciting opportunity for a skilled software engineer.", ReqExperience: 3, Skills: []string{"Go", "Postgres", "SQL"}},
		{ID: 2, Profile: "Data Scientist", Description: "Join our data science team and work on cutting-edge projects.", ReqExperience: 5, Skills: []string{"Python", "Machine Learning", "TensorFlow"}},
		{ID: 3, Profile: "Frontend Developer", Description: "Create amazing user interfaces with our talented frontend team.", ReqExperience: 2, Skills: []string{"JavaScript", "React", "CSS"}},
		{ID: 4, Profile: "Network Engineer", Description: "Design and maintain our robust network infrastructure.", ReqExperience: 4, Skills: []string{"Cisco", "Routing", "Firewalls"}},
		{ID: 5, Profile: "UX Designer", Description: "Shape the user experience with your creative design skills.", ReqExperience: 3, Skills: []string{"UI/UX Design", "Figma", "Prototyping"}},
	}
	for _, job := range samples {
		if _, err := s.jobs.Create(ctx, job); err != nil {
			return fmt.Errorf("seed job %d: %w", job.ID, err)
		}
	}
	if s.logger != nil {
		s.logger.Info("seeded sample job posts", zap.Int("count", len(samples)))
	}
	return nil
}
