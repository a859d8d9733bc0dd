package controllers

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub-api/services"
)

// ApplyController exposes the public submission endpoint.
type ApplyController struct {
	pipeline *services.SubmissionPipeline
}

func NewApplyController(pipeline *services.SubmissionPipeline) *ApplyController {
	return &ApplyController{pipeline: pipeline}
}

// Submit handles POST /api/apply: a multipart form carrying either a job
// application (with a resume file) or a collaboration commitment.
func (ac *ApplyController) Submit(c *gin.Context) {
	sub := services.Submission{
		Kind:           c.PostForm("submission_type"),
		PostingID:      c.PostForm("posting_id"),
		IdeaID:         c.PostForm("idea_id"),
		FullName:       c.PostForm("full_name"),
		Email:          c.PostForm("email"),
		Phone:          c.PostForm("phone"),
		LinkedinURL:    c.PostForm("linkedin_url"),
		CommittedHours: c.PostForm("committed_hours"),
		Origin:         c.ClientIP(),
	}

	fileHeader, err := c.FormFile("resume")
	if err == nil && fileHeader != nil {
		// The upload is held in memory for the storage write, so cap the
		// read at one byte past the ceiling; the pipeline rejects the
		// oversize file with its own message.
		file, openErr := fileHeader.Open()
		if openErr != nil {
			respondError(c, services.NewUpstreamError("Failed to read uploaded file.", openErr))
			return
		}
		data, readErr := io.ReadAll(io.LimitReader(file, services.MaxResumeSize+1))
		file.Close()
		if readErr != nil {
			respondError(c, services.NewUpstreamError("Failed to read uploaded file.", readErr))
			return
		}

		sub.Resume = &services.ResumeFile{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Data:        data,
		}
	}

	result, err := ac.pipeline.Submit(c.Request.Context(), sub, callerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("submission accepted: %s (id %d)", result.Message, result.ID)
	c.JSON(http.StatusOK, result)
}
