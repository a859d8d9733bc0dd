package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub-api/models"
	"talenthub-api/services"
	"talenthub-api/supabase"
)

// AdminController serves the locked dashboard reads. Every route here sits
// behind the admin gate; listings read across all rows, which only the
// privileged handle can do.
type AdminController struct {
	store  *supabase.Client
	issuer *services.ResumeLinkIssuer
}

func NewAdminController(store *supabase.Client, issuer *services.ResumeLinkIssuer) *AdminController {
	return &AdminController{store: store, issuer: issuer}
}

// ResumeLink handles GET /api/admin/resume-link/:key: a 60-second signed
// URL for one stored resume.
func (a *AdminController) ResumeLink(c *gin.Context) {
	url, err := a.issuer.IssueLink(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to sign resume link.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

type applicationRow struct {
	models.Application
	Posting *struct {
		Title string `json:"title"`
	} `json:"postings"`
}

type applicationView struct {
	models.Application
	JobTitle string `json:"job_title"`
}

// Applications handles GET /api/applications: all applications, newest
// first, with the posting title flattened in.
func (a *AdminController) Applications(c *gin.Context) {
	svc, err := a.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch applications.", err))
		return
	}

	var rows []applicationRow
	if err := svc.From("applications").
		Select("*,postings(title)").
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(c.Request.Context(), &rows); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch applications.", err))
		return
	}

	views := make([]applicationView, 0, len(rows))
	for _, row := range rows {
		view := applicationView{Application: row.Application, JobTitle: "Unknown Job"}
		if row.Posting != nil {
			view.JobTitle = row.Posting.Title
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"applications": views})
}

type collaboratorRow struct {
	models.Collaborator
	Idea *struct {
		Title      string `json:"title"`
		Department string `json:"department"`
	} `json:"ideas"`
}

type collaboratorView struct {
	models.Collaborator
	IdeaTitle  string `json:"idea_title"`
	IdeaEntity string `json:"idea_entity"`
}

// Collaborators handles GET /api/collaborators: all commitments, newest
// first, with the idea title and department flattened in.
func (a *AdminController) Collaborators(c *gin.Context) {
	svc, err := a.store.Service()
	if err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch collaborators.", err))
		return
	}

	var rows []collaboratorRow
	if err := svc.From("collaborators").
		Select("*,ideas(title,department)").
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(c.Request.Context(), &rows); err != nil {
		respondError(c, services.NewUpstreamError("Failed to fetch collaborators.", err))
		return
	}

	views := make([]collaboratorView, 0, len(rows))
	for _, row := range rows {
		view := collaboratorView{Collaborator: row.Collaborator, IdeaTitle: "Deleted Idea", IdeaEntity: "Unknown"}
		if row.Idea != nil {
			view.IdeaTitle = row.Idea.Title
			view.IdeaEntity = row.Idea.Department
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": views})
}
