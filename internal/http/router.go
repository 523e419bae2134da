package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Arijit634/job-management-api/internal/config"
	"github.com/Arijit634/job-management-api/internal/http/handler"
	"github.com/Arijit634/job-management-api/internal/http/middleware"
)

// NewRouter wires Gin routes and middleware. The authentication interceptor
// is installed on the engine itself so it runs exactly once per request;
// protected groups add RequireAuth on top.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, jobHandler *handler.JobHandler, auth *middleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(auth.Authenticate)

	// Public endpoints: reachable anonymously, though a revoked bearer
	// token is still rejected by the interceptor above.
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.POST("/register", authHandler.Register)
	r.GET("/blacklistSize", authHandler.BlacklistSize)

	protected := r.Group("/", middleware.RequireAuth())
	{
		protected.GET("/jobPost/:postId", jobHandler.Get)
		protected.GET("/jobPost/search", jobHandler.Search)
		protected.POST("/jobPost", jobHandler.Create)
		protected.PUT("/jobPost", jobHandler.Update)
		protected.DELETE("/jobPost/:postId", jobHandler.Delete)
		protected.GET("/allJobs", jobHandler.List)
		protected.GET("/load", jobHandler.Seed)
	}

	return r
}
