package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Arijit634/job-management-api/internal/domain"
	"github.com/Arijit634/job-management-api/internal/service"
)

// JobHandler exposes the job-post CRUD endpoints. All of them sit behind
// the authentication middleware.
type JobHandler struct {
	Jobs *service.JobService
}

// NewJobHandler creates the handler set.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

// Get returns a single job post.
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	job, err := h.Jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// List returns all job posts.
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.Jobs.List(c.Request.Context())
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Create stores a new job post.
func (h *JobHandler) Create(c *gin.Context) {
	var job domain.JobPost
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	created, err := h.Jobs.Add(c.Request.Context(), job)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// Update replaces an existing job post.
func (h *JobHandler) Update(c *gin.Context) {
	var job domain.JobPost
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	updated, err := h.Jobs.Update(c.Request.Context(), job)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a job post.
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Jobs.Delete(c.Request.Context(), id); err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted job with id: " + strconv.FormatInt(id, 10)})
}

// Search returns job posts matching the keyword.
func (h *JobHandler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "keyword is required."})
		return
	}
	jobs, err := h.Jobs.Search(c.Request.Context(), keyword)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Seed loads the sample job posts.
func (h *JobHandler) Seed(c *gin.Context) {
	if err := h.Jobs.Seed(c.Request.Context()); err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Success"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "postId must be an integer."})
		return 0, false
	}
	return id, true
}

func respondJobError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Job post does not exist."})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Job operation failed."})
}
