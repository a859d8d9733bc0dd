package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub-api/models"
	"talenthub-api/services"
	"talenthub-api/supabase"
)

// LeadController serves recruiter booking requests: public create, admin
// listing with the recruiter name joined in.
type LeadController struct {
	store *supabase.Client
}

func NewLeadController(store *supabase.Client) *LeadController {
	return &LeadController{store: store}
}

type leadRow struct {
	models.Lead
	Recruiter *struct {
		Name string `json:"name"`
	} `json:"recruiters"`
}

// List handles GET /api/leads (admin), newest first.
func (l *LeadController) List(c *gin.Context) {
	svc, err := l.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch leads.", err))
		return
	}

	var leads []leadRow
	if err := svc.From("leads").
		Select("*,recruiters(name)").
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(c.Request.Context(), &leads); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch leads.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

type leadRequest struct {
	RecruiterID      int64  `json:"recruiter_id" binding:"required"`
	CandidateName    string `json:"candidate_name" binding:"required"`
	CandidateEmail   string `json:"candidate_email"`
	CandidatePhone   string `json:"candidate_phone"`
	PreferredWindows string `json:"preferred_windows"`
}

// Create handles POST /api/leads (public).
func (l *LeadController) Create(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var created []models.Lead
	if err := l.store.WithToken(callerToken(c)).
		From("leads").
		Insert([]leadRequest{req}).
		ExecuteInto(c.Request.Context(), &created); err != nil {
		respondError(c, services.NewUpstreamError("Failed to create lead.", err))
		return
	}
	if len(created) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lead": created[0]})
}
