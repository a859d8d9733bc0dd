package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub-api/models"
	"talenthub-api/services"
	"talenthub-api/supabase"
)

// IdeaController serves the collaboration pitches: public listing and
// creation, admin delete.
type IdeaController struct {
	store *supabase.Client
}

func NewIdeaController(store *supabase.Client) *IdeaController {
	return &IdeaController{store: store}
}

// List handles GET /api/ideas, most-committed first.
func (i *IdeaController) List(c *gin.Context) {
	var ideas []models.Idea
	if err := i.store.Anon().
		From("ideas").
		Select("*").
		Order("total_hours", supabase.OrderDesc).
		ExecuteInto(c.Request.Context(), &ideas); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch ideas.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

type createIdeaRequest struct {
	Title       string `json:"title" binding:"required"`
	Department  string `json:"department"`
	Description string `json:"description"`
	TotalHours  int64  `json:"total_hours"`
}

// Create handles POST /api/ideas. Anyone may pitch; the insert runs at
// the caller's scope and the counters start at zero.
func (i *IdeaController) Create(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := map[string]interface{}{
		"title":              req.Title,
		"department":         req.Department,
		"description":        req.Description,
		"total_hours":        req.TotalHours,
		"participants_count": 0,
	}

	var created []models.Idea
	if err := i.store.WithToken(callerToken(c)).
		From("ideas").
		Insert([]map[string]interface{}{row}).
		ExecuteInto(c.Request.Context(), &created); err != nil {
		respondError(c, services.NewUpstreamError("Failed to create idea.", err))
		return
	}
	if len(created) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create idea."})
		return
	}

	c.JSON(http.StatusOK, created[0])
}

// Delete handles DELETE /api/ideas/:id (admin).
func (i *IdeaController) Delete(c *gin.Context) {
	svc, err := i.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete idea.", err))
		return
	}

	if _, err := svc.From("ideas").
		Delete().
		Eq("id", c.Param("id")).
		Execute(c.Request.Context()); err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete idea.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Idea Deleted"})
}
