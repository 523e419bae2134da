package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Arijit634/job-management-api/internal/blacklist"
	"github.com/Arijit634/job-management-api/internal/config"
	"github.com/Arijit634/job-management-api/internal/domain"
	httptransport "github.com/Arijit634/job-management-api/internal/http"
	"github.com/Arijit634/job-management-api/internal/http/handler"
	"github.com/Arijit634/job-management-api/internal/http/middleware"
	"github.com/Arijit634/job-management-api/internal/identity"
	"github.com/Arijit634/job-management-api/internal/password"
	"github.com/Arijit634/job-management-api/internal/service"
	"github.com/Arijit634/job-management-api/internal/token"
)

type memoryUserRepo struct {
	users map[string]domain.User
}

func (m *memoryUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	user, ok := m.users[strings.ToLower(username)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memoryUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.users[strings.ToLower(user.Username)] = user
	return user, nil
}

type memoryJobRepo struct {
	jobs map[int64]domain.JobPost
}

func (m *memoryJobRepo) GetByID(_ context.Context, id int64) (domain.JobPost, error) {
	job, ok := m.jobs[id]
	if !ok {
		return domain.JobPost{}, pgx.ErrNoRows
	}
	return job, nil
}

func (m *memoryJobRepo) List(_ context.Context) ([]domain.JobPost, error) {
	out := make([]domain.JobPost, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryJobRepo) Create(_ context.Context, job domain.JobPost) (domain.JobPost, error) {
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memoryJobRepo) Update(_ context.Context, job domain.JobPost) (domain.JobPost, error) {
	if _, ok := m.jobs[job.ID]; !ok {
		return domain.JobPost{}, pgx.ErrNoRows
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memoryJobRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.jobs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.jobs, id)
	return nil
}

func (m *memoryJobRepo) Search(_ context.Context, keyword string) ([]domain.JobPost, error) {
	needle := strings.ToLower(keyword)
	var out []domain.JobPost
	for _, job := range m.jobs {
		if strings.Contains(strings.ToLower(job.Profile), needle) ||
			strings.Contains(strings.ToLower(job.Description), needle) {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		TokenTTL:    time.Minute,
		ServiceName: "job-management-api",
	}

	hash, err := password.Hash("secret")
	require.NoError(t, err)
	users := &memoryUserRepo{users: map[string]domain.User{
		"alice": {ID: 1, Username: "alice", Name: "Alice", PasswordHash: hash},
	}}
	jobs := &memoryJobRepo{jobs: make(map[int64]domain.JobPost)}

	codec := token.NewCodec("0123456789abcdef0123456789abcdef", cfg.ServiceName)
	store := blacklist.NewStore(codec.Expiry, zap.NewNop())
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	authSvc := service.NewAuthService(users, codec, store, node, cfg, zap.NewNop())
	jobSvc := service.NewJobService(jobs, node, zap.NewNop())

	auth := &middleware.Auth{
		Blacklist: store,
		Codec:     codec,
		Directory: identity.NewRepoDirectory(users),
		Logger:    zap.NewNop(),
	}

	return httptransport.NewRouter(cfg, handler.NewAuthHandler(authSvc), handler.NewJobHandler(jobSvc), auth, nil)
}

func doJSON(engine *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, engine *gin.Engine, username, pass string) string {
	t.Helper()
	rec := doJSON(engine, http.MethodPost, "/login", "", gin.H{"username": username, "password": pass})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp service.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestSessionLifecycle(t *testing.T) {
	engine := newTestRouter(t)

	// Protected routes reject anonymous callers.
	rec := doJSON(engine, http.MethodGet, "/allJobs", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	access := login(t, engine, "alice", "secret")

	rec = doJSON(engine, http.MethodGet, "/allJobs", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout revokes the token.
	rec = doJSON(engine, http.MethodPost, "/logout", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Logged out successfully")

	// The revoked token is now rejected everywhere, public routes included.
	rec = doJSON(engine, http.MethodGet, "/allJobs", access, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, middleware.RevokedTokenBody, rec.Body.String())

	rec = doJSON(engine, http.MethodGet, "/blacklistSize", access, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, middleware.RevokedTokenBody, rec.Body.String())

	// Without the dead token the size endpoint reports the revocation.
	rec = doJSON(engine, http.MethodGet, "/blacklistSize", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Body.String())

	// Logout without a bearer token is a harmless no-op.
	rec = doJSON(engine, http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No active session to logout")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine := newTestRouter(t)

	rec := doJSON(engine, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_credentials")

	rec = doJSON(engine, http.MethodPost, "/login", "", gin.H{"username": "", "password": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterThenUseSession(t *testing.T) {
	engine := newTestRouter(t)

	rec := doJSON(engine, http.MethodPost, "/register", "", gin.H{"username": "Bob", "password": "hunter22", "name": "Bob Builder"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(engine, http.MethodPost, "/register", "", gin.H{"username": "bob", "password": "other"})
	require.Equal(t, http.StatusConflict, rec.Code)

	access := login(t, engine, "bob", "hunter22")
	rec = doJSON(engine, http.MethodGet, "/allJobs", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestJobCRUDRoundTrip(t *testing.T) {
	engine := newTestRouter(t)
	access := login(t, engine, "alice", "secret")

	// Create.
	rec := doJSON(engine, http.MethodPost, "/jobPost", access, gin.H{
		"postId":        42,
		"postProfile":   "Backend Engineer",
		"postDesc":      "Build APIs.",
		"reqExperience": 3,
		"postSkills":    []string{"Go", "Postgres"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Read.
	rec = doJSON(engine, http.MethodGet, "/jobPost/42", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var job domain.JobPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	require.Equal(t, "Backend Engineer", job.Profile)
	require.Equal(t, []string{"Go", "Postgres"}, job.Skills)

	// Update.
	rec = doJSON(engine, http.MethodPut, "/jobPost", access, gin.H{
		"postId":        42,
		"postProfile":   "Senior Backend Engineer",
		"postDesc":      "Build APIs.",
		"reqExperience": 5,
		"postSkills":    []string{"Go", "Postgres", "Kubernetes"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Search.
	rec = doJSON(engine, http.MethodGet, "/jobPost/search?keyword=backend", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []domain.JobPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	require.Equal(t, "Senior Backend Engineer", matches[0].Profile)

	// Delete, then the post is gone.
	rec = doJSON(engine, http.MethodDelete, "/jobPost/42", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(engine, http.MethodGet, "/jobPost/42", access, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not_found")
}

func TestSeedLoadsSamples(t *testing.T) {
	engine := newTestRouter(t)
	access := login(t, engine, "alice", "secret")

	rec := doJSON(engine, http.MethodGet, "/load", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(engine, http.MethodGet, "/allJobs", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []domain.JobPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 5)
}
