package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub-api/models"
	"talenthub-api/services"
	"talenthub-api/supabase"
)

// ProspectController serves inbound contacts: public create, admin
// listing and delete.
type ProspectController struct {
	store *supabase.Client
}

func NewProspectController(store *supabase.Client) *ProspectController {
	return &ProspectController{store: store}
}

// List handles GET /api/prospects (admin), newest first.
func (p *ProspectController) List(c *gin.Context) {
	svc, err := p.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch prospects.", err))
		return
	}

	var prospects []models.Prospect
	if err := svc.From("prospects").
		Select("*").
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(c.Request.Context(), &prospects); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch prospects.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"prospects": prospects})
}

type prospectRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

// Create handles POST /api/prospects (public).
func (p *ProspectController) Create(c *gin.Context) {
	var req prospectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var created []models.Prospect
	if err := p.store.WithToken(callerToken(c)).
		From("prospects").
		Insert([]prospectRequest{req}).
		ExecuteInto(c.Request.Context(), &created); err != nil {
		respondError(c, services.NewUpstreamError("Failed to create prospect.", err))
		return
	}
	if len(created) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prospect."})
		return
	}

	c.JSON(http.StatusOK, created[0])
}

// Delete handles DELETE /api/prospects/:id (admin).
func (p *ProspectController) Delete(c *gin.Context) {
	svc, err := p.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete prospect.", err))
		return
	}

	if _, err := svc.From("prospects").
		Delete().
		Eq("id", c.Param("id")).
		Execute(c.Request.Context()); err != nil {
		respondError(c, services.NewUpstreamError("Failed to delete prospect.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prospect Deleted"})
}
