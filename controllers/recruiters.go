package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub-api/models"
	"talenthub-api/services"
	"talenthub-api/supabase"
	"talenthub-api/utils"
)

// RecruiterController serves the recruiter profiles: public listing and
// slug lookup, admin create/update/delete.
type RecruiterController struct {
	store *supabase.Client
}

func NewRecruiterController(store *supabase.Client) *RecruiterController {
	return &RecruiterController{store: store}
}

// List handles GET /api/recruiters, alphabetical.
func (r *RecruiterController) List(c *gin.Context) {
	var recruiters []models.Recruiter
	if err := r.store.Anon().
		From("recruiters").
		Select("*").
		Order("name", supabase.OrderAsc).
		ExecuteInto(c.Request.Context(), &recruiters); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch recruiters.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"recruiters": recruiters})
}

// GetBySlug handles GET /api/recruiters/slug/:slug.
func (r *RecruiterController) GetBySlug(c *gin.Context) {
	var recruiters []models.Recruiter
	if err := r.store.Anon().
		From("recruiters").
		Select("*").
		Eq("slug", c.Param("slug")).
		Limit(1).
		ExecuteInto(c.Request.Context(), &recruiters); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch recruiter.", err))
		return
	}
	if len(recruiters) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recruiter not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recruiter": recruiters[0]})
}

type recruiterRequest struct {
	Name        string  `json:"name" binding:"required"`
	Bio         string  `json:"bio"`
	Highlights  string  `json:"highlights"`
	CalendarID  string  `json:"calendar_id"`
	Slug        string  `json:"slug"`
	HeadshotURL *string `json:"headshot_url"`
}

// Create handles POST /api/recruiters (admin). The slug is derived from
// the name when not supplied.
func (r *RecruiterController) Create(c *gin.Context) {
	var req recruiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Slug == "" {
		req.Slug = utils.Slugify(req.Name)
	}

	svc, err := r.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to create recruiter.", err))
		return
	}

	var created []models.Recruiter
	if err := svc.From("recruiters").
		Insert([]recruiterRequest{req}).
		ExecuteInto(c.Request.Context(), &created); err != nil {
		respondError(c, services.NewUpstreamError("Failed to create recruiter.", err))
		return
	}
	if len(created) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recruiter."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recruiter": created[0]})
}

// Update handles PUT /api/recruiters/:id (admin).
func (r *RecruiterController) Update(c *gin.Context) {
	var req recruiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc, err := r.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to update recruiter.", err))
		return
	}

	var updated []models.Recruiter
	if err := svc.From("recruiters").
		Update(req).
		Eq("id", c.Param("id")).
		ExecuteInto(c.Request.Context(), &updated); err != nil {
		respondError(c, services.NewUpstreamError("Failed to update recruiter.", err))
		return
	}
	if len(updated) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recruiter not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recruiter": updated[0]})
}

// Delete handles DELETE /api/recruiters/:id (admin).
func (r *RecruiterController) Delete(c *gin.Context) {
	svc, err := r.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete recruiter.", err))
		return
	}

	if _, err := svc.From("recruiters").
		Delete().
		Eq("id", c.Param("id")).
		Execute(c.Request.Context()); err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete recruiter.", err))
		return
	}

	c.Status(http.StatusNoContent)
}
