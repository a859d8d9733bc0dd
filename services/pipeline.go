package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"talenthub-api/supabase"
	"talenthub-api/utils"
)

// Resume constraints for job applications.
const (
	AllowedResumeType = "application/pdf"
	MaxResumeSize     = 5 * 1024 * 1024
)

// SubmissionKind discriminates the two public write flows.
type SubmissionKind string

const (
	KindJob           SubmissionKind = "job"
	KindCollaboration SubmissionKind = "collaboration"
)

// ResumeFile is an uploaded resume held in memory.
type ResumeFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Submission is one parsed /apply payload.
type Submission struct {
	// Kind is the explicit discriminant ("job" or "collaboration"). When
	// empty, the presence of CommittedHours selects the collaboration
	// variant, matching the payloads older clients still send.
	Kind string

	PostingID      string
	IdeaID         string
	FullName       string
	Email          string
	Phone          string
	LinkedinURL    string
	CommittedHours string
	Resume         *ResumeFile

	// Origin is the caller's network address, recorded on applications
	// for future rate-limit checks.
	Origin string
}

// SubmissionResult is the success response of the pipeline.
type SubmissionResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// SubmissionPipeline accepts public, unauthenticated submissions: job
// applications with a resume, or collaboration commitments. Each call is
// one independent pass; there is no shared mutable state.
//
// When the row insert fails after the resume upload succeeded, the
// pipeline makes one best-effort attempt to remove the object again; if
// that removal also fails the key is logged and the object stays behind
// orphaned. There is no reconciliation sweep.
type SubmissionPipeline struct {
	store    *supabase.Client
	limiter  *RateLimiter
	stats    *StatsAggregator
	notifier *Notifier
	bucket   string
}

func NewSubmissionPipeline(store *supabase.Client, bucket string, notifier *Notifier) *SubmissionPipeline {
	return &SubmissionPipeline{
		store:    store,
		limiter:  NewRateLimiter(store),
		stats:    NewStatsAggregator(store),
		notifier: notifier,
		bucket:   bucket,
	}
}

// Submit runs the pipeline for one submission. callerToken is the
// submitter's own bearer token when they sent one; inserts run at that
// scope (or anonymous) so the store's row policies stay in charge.
func (p *SubmissionPipeline) Submit(ctx context.Context, sub Submission, callerToken string) (*SubmissionResult, error) {
	sub.FullName = utils.SanitizeInput(sub.FullName)
	sub.Email = utils.SanitizeInput(sub.Email)
	sub.Phone = utils.SanitizeInput(sub.Phone)
	sub.LinkedinURL = utils.SanitizeInput(sub.LinkedinURL)

	kind, err := classify(sub)
	if err != nil {
		return nil, err
	}

	var result *SubmissionResult
	switch kind {
	case KindCollaboration:
		result, err = p.submitCollaboration(ctx, sub, callerToken)
	default:
		result, err = p.submitApplication(ctx, sub, callerToken)
	}
	if err != nil {
		return nil, err
	}

	if notifyErr := p.notifier.SubmissionReceived(kind, sub.FullName, sub.Email); notifyErr != nil {
		log.Printf("submission notification failed: %v", notifyErr)
	}

	return result, nil
}

// classify picks the flow. An explicit kind wins; otherwise a present
// committed_hours value means collaboration.
func classify(sub Submission) (SubmissionKind, error) {
	switch SubmissionKind(sub.Kind) {
	case KindJob, KindCollaboration:
		return SubmissionKind(sub.Kind), nil
	}
	if sub.Kind != "" {
		return "", NewValidationError("Unknown submission_type, expected \"job\" or \"collaboration\".")
	}
	if strings.TrimSpace(sub.CommittedHours) != "" {
		return KindCollaboration, nil
	}
	return KindJob, nil
}

func validateIdentity(sub Submission) error {
	if strings.TrimSpace(sub.FullName) == "" ||
		strings.TrimSpace(sub.Email) == "" ||
		strings.TrimSpace(sub.Phone) == "" {
		return NewValidationError("full_name, email and phone are required.")
	}
	if !utils.ValidateEmail(sub.Email) {
		return NewValidationError("A valid email address is required.")
	}
	return nil
}

// insertedRow captures the id PostgREST returns for a created row.
type insertedRow struct {
	ID int64 `json:"id"`
}

func (p *SubmissionPipeline) submitApplication(ctx context.Context, sub Submission, callerToken string) (*SubmissionResult, error) {
	if sub.Resume == nil {
		return nil, NewValidationError("Resume PDF is required for job applications.")
	}
	if err := validateIdentity(sub); err != nil {
		return nil, err
	}
	// Type before size: a wrong type is rejected even when the file is
	// also oversize.
	if sub.Resume.ContentType != AllowedResumeType {
		return nil, NewValidationError("Only PDF files are allowed!")
	}
	if sub.Resume.Size > MaxResumeSize {
		return nil, NewValidationError("File is too large. Max size is 5MB.")
	}

	var postingID *int64
	if strings.TrimSpace(sub.PostingID) != "" {
		id, err := strconv.ParseInt(sub.PostingID, 10, 64)
		if err != nil {
			return nil, NewValidationError("Invalid posting_id.")
		}
		postingID = &id
	}

	// Rate check runs privileged: counting across all applications is
	// impossible at the anonymous scope. A failed count aborts the
	// submission (fail closed) rather than letting it through uncounted.
	windowStart := time.Now().Add(-RateLimitWindow)
	count, err := p.limiter.CountRecent(ctx, sub.Email, sub.Origin, windowStart)
	if err != nil {
		log.Printf("rate limit check failed: %v", err)
		return nil, NewUpstreamError("System error, please try again.", err)
	}
	if count >= RateLimitThreshold {
		return nil, NewRateLimitError("You used up all your applications for the day. Please join our discord.")
	}

	// The resume bucket is private, so the write needs the service role.
	// Only the object key is recorded on the row, never a URL.
	svc, err := p.store.Service()
	if err != nil {
		return nil, NewUpstreamError("Failed to store resume.", err)
	}
	objectKey := fmt.Sprintf("resume-%d-%s.pdf", time.Now().UnixMilli(), uuid.NewString())
	if err := svc.Upload(ctx, p.bucket, objectKey, sub.Resume.Data, &supabase.UploadOptions{
		ContentType: AllowedResumeType,
	}); err != nil {
		return nil, NewUpstreamError("Failed to store resume.", err)
	}

	// The insert stays scoped: row policy allows anonymous inserts into
	// applications, and nothing more.
	row := map[string]interface{}{
		"full_name":  sub.FullName,
		"email":      sub.Email,
		"phone":      sub.Phone,
		"resume_url": objectKey,
		"ip_address": sub.Origin,
	}
	if postingID != nil {
		row["posting_id"] = *postingID
	}
	if strings.TrimSpace(sub.LinkedinURL) != "" {
		row["linkedin_url"] = sub.LinkedinURL
	}

	var created []insertedRow
	if err := p.store.WithToken(callerToken).
		From("applications").
		Insert([]map[string]interface{}{row}).
		ExecuteInto(ctx, &created); err != nil {
		if rmErr := svc.RemoveObjects(ctx, p.bucket, []string{objectKey}); rmErr != nil {
			log.Printf("application insert failed, orphaned resume object %q: %v (cleanup failed: %v)", objectKey, err, rmErr)
		} else {
			log.Printf("application insert failed, removed resume object %q: %v", objectKey, err)
		}
		return nil, NewUpstreamError("Failed to save application.", err)
	}
	if len(created) == 0 {
		return nil, NewUpstreamError("Failed to save application.", fmt.Errorf("insert returned no rows"))
	}

	return &SubmissionResult{Message: "Application successful", ID: created[0].ID}, nil
}

func (p *SubmissionPipeline) submitCollaboration(ctx context.Context, sub Submission, callerToken string) (*SubmissionResult, error) {
	if err := validateIdentity(sub); err != nil {
		return nil, err
	}

	hours, err := strconv.ParseInt(strings.TrimSpace(sub.CommittedHours), 10, 64)
	if err != nil || hours <= 0 {
		return nil, NewValidationError("committed_hours must be a positive number.")
	}

	ideaID, err := strconv.ParseInt(strings.TrimSpace(sub.IdeaID), 10, 64)
	if err != nil {
		return nil, NewValidationError("A valid idea_id is required.")
	}

	row := map[string]interface{}{
		"idea_id":         ideaID,
		"full_name":       sub.FullName,
		"email":           sub.Email,
		"phone":           sub.Phone,
		"committed_hours": hours,
	}

	var created []insertedRow
	if err := p.store.WithToken(callerToken).
		From("collaborators").
		Insert([]map[string]interface{}{row}).
		ExecuteInto(ctx, &created); err != nil {
		return nil, NewUpstreamError("Failed to save collaboration.", err)
	}
	if len(created) == 0 {
		return nil, NewUpstreamError("Failed to save collaboration.", fmt.Errorf("insert returned no rows"))
	}

	if err := p.stats.ApplyCommitment(ctx, ideaID, hours); err != nil {
		// The commitment row is already in; without rollback the counters
		// are now behind until the next successful update.
		log.Printf("idea stats update failed for idea %d: %v", ideaID, err)
		return nil, NewUpstreamError("Failed to update idea stats.", err)
	}

	return &SubmissionResult{Message: "Collaboration successful", ID: created[0].ID}, nil
}
