package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub-api/models"
	"talenthub-api/services"
	"talenthub-api/supabase"
)

// JobController serves the postings surface: public listing, admin
// create/delete, and the public participants view.
type JobController struct {
	store *supabase.Client
}

func NewJobController(store *supabase.Client) *JobController {
	return &JobController{store: store}
}

// List handles GET /api/jobs.
func (j *JobController) List(c *gin.Context) {
	var jobs []models.Posting
	if err := j.store.Anon().
		From("postings").
		Select("*").
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(c.Request.Context(), &jobs); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch jobs.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

type createPostingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Salary      *float64 `json:"salary"`
	Description string   `json:"description"`
}

// Create handles POST /api/jobs (admin).
func (j *JobController) Create(c *gin.Context) {
	var req createPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc, err := j.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to create job.", err))
		return
	}

	var created []models.Posting
	if err := svc.From("postings").
		Insert([]createPostingRequest{req}).
		ExecuteInto(c.Request.Context(), &created); err != nil {
		respondError(c, services.NewUpstreamError("Failed to create job.", err))
		return
	}
	if len(created) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job."})
		return
	}

	c.JSON(http.StatusOK, created[0])
}

// Delete handles DELETE /api/jobs/:id (admin).
func (j *JobController) Delete(c *gin.Context) {
	svc, err := j.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete job.", err))
		return
	}

	if _, err := svc.From("postings").
		Delete().
		Eq("id", c.Param("id")).
		Execute(c.Request.Context()); err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete job.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// Participants handles GET /api/jobs/:id/participants and its alias
// GET /api/ideas/:id/participants: the public pledge list for one idea.
func (j *JobController) Participants(c *gin.Context) {
	var participants []models.Participant
	if err := j.store.Anon().
		From("collaborators").
		Select("full_name,committed_hours,created_at").
		Eq("idea_id", c.Param("id")).
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(c.Request.Context(), &participants); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch participants.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": participants})
}
