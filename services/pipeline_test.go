package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"talenthub-api/supabase"
)

// fakeStore scripts the store, storage and rpc endpoints the pipeline
// talks to and records every write it receives.
type fakeStore struct {
	t  *testing.T
	mu sync.Mutex

	recentCount int64
	countFails  bool
	rpcFails    bool
	insertFails bool
	ideaHours   int64
	ideaParts   int64

	requests     int
	uploadKeys   []string
	uploadBodies [][]byte
	removedKeys  []string
	appInserts   []map[string]interface{}
	colInserts   []map[string]interface{}
	rpcCalls     []map[string]interface{}
	ideaReads    int
	ideaPatches  []map[string]interface{}
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/rest/v1/applications":
		if f.countFails {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Range", fmt.Sprintf("0-0/%d", f.recentCount))
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/storage/v1/object/resumes/"):
		body, _ := io.ReadAll(r.Body)
		f.uploadKeys = append(f.uploadKeys, strings.TrimPrefix(r.URL.Path, "/storage/v1/object/resumes/"))
		f.uploadBodies = append(f.uploadBodies, body)
		w.Write([]byte(`{"Key":"resumes/stored"}`))

	case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/applications":
		if f.insertFails {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"code":"42501","message":"new row violates row-level security policy"}`))
			return
		}
		f.appInserts = append(f.appInserts, decodeInsert(f.t, r.Body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":42}]`))

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/storage/v1/object/resumes"):
		var body struct {
			Prefixes []string `json:"prefixes"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.removedKeys = append(f.removedKeys, body.Prefixes...)
		w.Write([]byte(`[]`))

	case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/collaborators":
		f.colInserts = append(f.colInserts, decodeInsert(f.t, r.Body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":7}]`))

	case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/rpc/increment_idea_stats":
		var params map[string]interface{}
		json.NewDecoder(r.Body).Decode(&params)
		f.rpcCalls = append(f.rpcCalls, params)
		if f.rpcFails {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"42883","message":"function increment_idea_stats does not exist"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/ideas":
		f.ideaReads++
		fmt.Fprintf(w, `{"total_hours":%d,"participants_count":%d}`, f.ideaHours, f.ideaParts)

	case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/ideas":
		var patch map[string]interface{}
		json.NewDecoder(r.Body).Decode(&patch)
		f.ideaPatches = append(f.ideaPatches, patch)
		w.Write([]byte(`[{"id":3}]`))

	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func decodeInsert(t *testing.T, body io.Reader) map[string]interface{} {
	var rows []map[string]interface{}
	if err := json.NewDecoder(body).Decode(&rows); err != nil {
		t.Fatalf("decoding insert body: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single-row insert, got %d rows", len(rows))
	}
	return rows[0]
}

func newTestPipeline(t *testing.T, store *fakeStore) (*SubmissionPipeline, func()) {
	t.Helper()
	store.t = t

	server := httptest.NewServer(store)
	client, err := supabase.New(supabase.Config{
		URL:        server.URL,
		AnonKey:    "anon-key",
		ServiceKey: "service-key",
	})
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	return NewSubmissionPipeline(client, "resumes", nil), server.Close
}

func pdfResume() *ResumeFile {
	data := []byte("%PDF-1.7 test resume")
	return &ResumeFile{
		Filename:    "resume.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(data)),
		Data:        data,
	}
}

func jobSubmission() Submission {
	return Submission{
		PostingID: "3",
		FullName:  "Ada Lovelace",
		Email:     "ada@example.com",
		Phone:     "+15550001111",
		Resume:    pdfResume(),
		Origin:    "10.0.0.1",
	}
}

func collabSubmission() Submission {
	return Submission{
		IdeaID:         "3",
		FullName:       "Grace Hopper",
		Email:          "grace@example.com",
		Phone:          "+15550002222",
		CommittedHours: "10",
	}
}

func appErrorKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Kind
}

func TestJobApplicationHappyPath(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	result, err := pipeline.Submit(context.Background(), jobSubmission(), "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Message != "Application successful" {
		t.Fatalf("got message %q", result.Message)
	}
	if result.ID != 42 {
		t.Fatalf("got id %d, want 42", result.ID)
	}

	if len(store.uploadKeys) != 1 {
		t.Fatalf("expected exactly one upload, got %d", len(store.uploadKeys))
	}
	key := store.uploadKeys[0]
	if !strings.HasPrefix(key, "resume-") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("object key %q does not match resume-<ts>-<uuid>.pdf", key)
	}
	if string(store.uploadBodies[0]) != "%PDF-1.7 test resume" {
		t.Fatal("uploaded bytes differ from the submitted resume")
	}

	if len(store.appInserts) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(store.appInserts))
	}
	row := store.appInserts[0]
	if row["resume_url"] != key {
		t.Fatalf("row records key %v, uploaded object is %q", row["resume_url"], key)
	}
	if row["ip_address"] != "10.0.0.1" {
		t.Fatalf("row records origin %v", row["ip_address"])
	}
	if row["posting_id"] != float64(3) {
		t.Fatalf("row records posting_id %v", row["posting_id"])
	}
}

func TestJobApplicationRequiresResume(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	sub := jobSubmission()
	sub.Resume = nil

	_, err := pipeline.Submit(context.Background(), sub, "")
	if kind := appErrorKind(t, err); kind != KindValidation {
		t.Fatalf("got kind %d, want validation", kind)
	}
	if store.requests != 0 {
		t.Fatalf("validation must reject before any store call, saw %d requests", store.requests)
	}
}

func TestResumeTypeCheckedBeforeSize(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	sub := jobSubmission()
	sub.Resume.ContentType = "application/msword"
	sub.Resume.Size = MaxResumeSize + 1

	_, err := pipeline.Submit(context.Background(), sub, "")
	if err == nil || err.Error() != "Only PDF files are allowed!" {
		t.Fatalf("got error %v, want the type rejection", err)
	}
}

func TestOversizeResumeRejected(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	sub := jobSubmission()
	sub.Resume.Size = MaxResumeSize + 1

	_, err := pipeline.Submit(context.Background(), sub, "")
	if err == nil || err.Error() != "File is too large. Max size is 5MB." {
		t.Fatalf("got error %v, want the size rejection", err)
	}
	if len(store.uploadKeys) != 0 {
		t.Fatal("oversize resume must not reach storage")
	}
}

func TestInvalidEmailRejected(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	for _, email := range []string{"not-an-email", "a@b", "a b@example.com"} {
		sub := jobSubmission()
		sub.Email = email

		_, err := pipeline.Submit(context.Background(), sub, "")
		if kind := appErrorKind(t, err); kind != KindValidation {
			t.Fatalf("email %q: got kind %d, want validation", email, kind)
		}
	}
	if store.requests != 0 {
		t.Fatalf("a bad email must reject before any store call, saw %d requests", store.requests)
	}
}

func TestSubmittedFieldsAreSanitized(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	sub := jobSubmission()
	sub.FullName = "  Ada Lovelace\x00 "
	sub.Email = " ada@example.com "

	if _, err := pipeline.Submit(context.Background(), sub, ""); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	row := store.appInserts[0]
	if row["full_name"] != "Ada Lovelace" {
		t.Fatalf("full_name stored as %q", row["full_name"])
	}
	if row["email"] != "ada@example.com" {
		t.Fatalf("email stored as %q", row["email"])
	}
}

func TestInsertFailureRemovesUploadedResume(t *testing.T) {
	store := &fakeStore{insertFails: true}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	_, err := pipeline.Submit(context.Background(), jobSubmission(), "")
	if kind := appErrorKind(t, err); kind != KindUpstream {
		t.Fatalf("got kind %d, want upstream", kind)
	}

	if len(store.uploadKeys) != 1 {
		t.Fatalf("expected one upload before the failing insert, got %d", len(store.uploadKeys))
	}
	if len(store.removedKeys) != 1 || store.removedKeys[0] != store.uploadKeys[0] {
		t.Fatalf("uploaded object %q was not removed, removals: %v", store.uploadKeys[0], store.removedKeys)
	}
}

func TestMissingIdentityFieldsRejected(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	sub := jobSubmission()
	sub.Phone = "   "

	_, err := pipeline.Submit(context.Background(), sub, "")
	if kind := appErrorKind(t, err); kind != KindValidation {
		t.Fatalf("got kind %d, want validation", kind)
	}
}

func TestRateLimitBlocksAtThreshold(t *testing.T) {
	store := &fakeStore{recentCount: RateLimitThreshold}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	_, err := pipeline.Submit(context.Background(), jobSubmission(), "")
	if kind := appErrorKind(t, err); kind != KindRateLimit {
		t.Fatalf("got kind %d, want rate limit", kind)
	}
	if len(store.uploadKeys) != 0 || len(store.appInserts) != 0 {
		t.Fatal("a rate-limited submission must not write anything")
	}
}

func TestRateLimitOneBelowThresholdPasses(t *testing.T) {
	store := &fakeStore{recentCount: RateLimitThreshold - 1}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	if _, err := pipeline.Submit(context.Background(), jobSubmission(), ""); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
}

func TestRateLimitCheckFailureAbortsSubmission(t *testing.T) {
	store := &fakeStore{countFails: true}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	_, err := pipeline.Submit(context.Background(), jobSubmission(), "")
	if kind := appErrorKind(t, err); kind != KindUpstream {
		t.Fatalf("got kind %d, want upstream", kind)
	}
	if len(store.uploadKeys) != 0 || len(store.appInserts) != 0 {
		t.Fatal("an uncountable submission must not be let through")
	}
}

func TestCollaborationAppliesAtomicIncrement(t *testing.T) {
	store := &fakeStore{ideaHours: 5, ideaParts: 1}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	result, err := pipeline.Submit(context.Background(), collabSubmission(), "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Message != "Collaboration successful" {
		t.Fatalf("got message %q", result.Message)
	}
	if result.ID != 7 {
		t.Fatalf("got id %d, want 7", result.ID)
	}

	if len(store.colInserts) != 1 {
		t.Fatalf("expected one collaborator insert, got %d", len(store.colInserts))
	}
	row := store.colInserts[0]
	if row["idea_id"] != float64(3) || row["committed_hours"] != float64(10) {
		t.Fatalf("unexpected collaborator row %v", row)
	}

	if len(store.rpcCalls) != 1 {
		t.Fatalf("expected one increment call, got %d", len(store.rpcCalls))
	}
	call := store.rpcCalls[0]
	if call["row_id"] != float64(3) || call["h_count"] != float64(10) {
		t.Fatalf("unexpected increment params %v", call)
	}
	if store.ideaReads != 0 || len(store.ideaPatches) != 0 {
		t.Fatal("the atomic path must not fall back to read-modify-write")
	}
}

func TestCollaborationFallbackOnIncrementFailure(t *testing.T) {
	store := &fakeStore{rpcFails: true, ideaHours: 5, ideaParts: 1}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	result, err := pipeline.Submit(context.Background(), collabSubmission(), "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Message != "Collaboration successful" {
		t.Fatalf("got message %q", result.Message)
	}

	if store.ideaReads != 1 || len(store.ideaPatches) != 1 {
		t.Fatalf("expected one read and one patch, got %d reads, %d patches", store.ideaReads, len(store.ideaPatches))
	}
	patch := store.ideaPatches[0]
	if patch["total_hours"] != float64(15) {
		t.Fatalf("total_hours patched to %v, want 15", patch["total_hours"])
	}
	if patch["participants_count"] != float64(2) {
		t.Fatalf("participants_count patched to %v, want 2", patch["participants_count"])
	}
}

func TestCollaborationRequiresPositiveHours(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	for _, hours := range []string{"0", "-3", "abc"} {
		sub := collabSubmission()
		sub.CommittedHours = hours
		sub.Kind = string(KindCollaboration)

		_, err := pipeline.Submit(context.Background(), sub, "")
		if kind := appErrorKind(t, err); kind != KindValidation {
			t.Fatalf("hours %q: got kind %d, want validation", hours, kind)
		}
	}
}

func TestCollaborationRequiresIdeaID(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	sub := collabSubmission()
	sub.IdeaID = ""

	_, err := pipeline.Submit(context.Background(), sub, "")
	if err == nil || err.Error() != "A valid idea_id is required." {
		t.Fatalf("got error %v, want the idea_id rejection", err)
	}
}

func TestClassifySubmissions(t *testing.T) {
	cases := []struct {
		name    string
		kind    string
		hours   string
		want    SubmissionKind
		wantErr bool
	}{
		{"explicit job", "job", "", KindJob, false},
		{"explicit collaboration", "collaboration", "", KindCollaboration, false},
		{"hours imply collaboration", "", "10", KindCollaboration, false},
		{"no hours imply job", "", "", KindJob, false},
		{"blank hours imply job", "", "   ", KindJob, false},
		{"unknown kind rejected", "banana", "", "", true},
	}

	for _, tc := range cases {
		got, err := classify(Submission{Kind: tc.kind, CommittedHours: tc.hours})
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExplicitKindOverridesHours(t *testing.T) {
	store := &fakeStore{}
	pipeline, cleanup := newTestPipeline(t, store)
	defer cleanup()

	sub := jobSubmission()
	sub.Kind = string(KindJob)
	sub.CommittedHours = "5"

	if _, err := pipeline.Submit(context.Background(), sub, ""); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(store.appInserts) != 1 || len(store.colInserts) != 0 {
		t.Fatal("explicit job kind must route to the application flow")
	}
}
