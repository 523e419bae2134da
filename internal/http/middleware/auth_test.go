package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Arijit634/job-management-api/internal/blacklist"
	"github.com/Arijit634/job-management-api/internal/domain"
	"github.com/Arijit634/job-management-api/internal/http/middleware"
	"github.com/Arijit634/job-management-api/internal/identity"
	"github.com/Arijit634/job-management-api/internal/token"
)

type staticDirectory struct {
	principals map[string]domain.Principal
}

func (d *staticDirectory) Resolve(_ context.Context, subject string) (domain.Principal, error) {
	principal, ok := d.principals[subject]
	if !ok {
		return domain.Principal{}, identity.ErrNotFound
	}
	return principal, nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *token.Codec, *blacklist.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := token.NewCodec("0123456789abcdef0123456789abcdef", "job-management-api")
	store := blacklist.NewStore(codec.Expiry, zap.NewNop())
	auth := &middleware.Auth{
		Blacklist: store,
		Codec:     codec,
		Directory: &staticDirectory{principals: map[string]domain.Principal{
			"alice": {Username: "alice", Name: "Alice", Authorities: []string{domain.AuthorityUser}},
		}},
		Logger: zap.NewNop(),
	}

	engine := gin.New()
	engine.Use(auth.Authenticate)
	engine.GET("/public", func(c *gin.Context) {
		c.String(http.StatusOK, "public")
	})
	engine.GET("/private", middleware.RequireAuth(), func(c *gin.Context) {
		principal, _ := middleware.GetPrincipal(c)
		c.String(http.StatusOK, principal.Username)
	})
	return engine, codec, store
}

func perform(engine *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAnonymousReachesPublicRoutes(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec := perform(engine, "/public", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public", rec.Body.String())

	rec = perform(engine, "/private", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthorized")
}

func TestValidTokenBindsPrincipal(t *testing.T) {
	engine, codec, _ := newTestEngine(t)

	raw, err := codec.Issue("alice", time.Minute)
	require.NoError(t, err)

	rec := perform(engine, "/private", raw)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", rec.Body.String())
}

func TestRevokedTokenRejectedEverywhere(t *testing.T) {
	engine, codec, store := newTestEngine(t)

	raw, err := codec.Issue("alice", time.Minute)
	require.NoError(t, err)
	store.Revoke(raw)

	for _, path := range []string{"/public", "/private"} {
		rec := perform(engine, path, raw)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.Equal(t, middleware.RevokedTokenBody, rec.Body.String(), path)
	}
}

func TestGarbageTokenDegradesToAnonymous(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec := perform(engine, "/public", "not-a-token")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(engine, "/private", "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenDegradesToAnonymous(t *testing.T) {
	engine, codec, _ := newTestEngine(t)

	raw, err := codec.Issue("alice", -2*time.Hour)
	require.NoError(t, err)

	rec := perform(engine, "/public", raw)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(engine, "/private", raw)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownSubjectDegradesToAnonymous(t *testing.T) {
	engine, codec, _ := newTestEngine(t)

	raw, err := codec.Issue("ghost", time.Minute)
	require.NoError(t, err)

	rec := perform(engine, "/public", raw)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(engine, "/private", raw)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRevocationWinsOverValidity(t *testing.T) {
	engine, codec, store := newTestEngine(t)

	// Expired and revoked: the blacklist check fires first.
	raw, err := codec.Issue("alice", -2*time.Hour)
	require.NoError(t, err)
	store.Revoke(raw)

	rec := perform(engine, "/public", raw)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, middleware.RevokedTokenBody, rec.Body.String())
}
