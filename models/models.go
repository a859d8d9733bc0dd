package models

import "time"

// Posting represents the postings table: a job opening. Created and
// deleted only by an administrator, readable by anyone.
type Posting struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Salary      *float64  `json:"salary"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Idea represents the ideas table: a collaboration pitch. TotalHours and
// ParticipantsCount are derived counters maintained by the submission
// pipeline; both are non-negative and only ever grow.
type Idea struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Department        string    `json:"department"`
	Description       string    `json:"description"`
	TotalHours        int64     `json:"total_hours"`
	ParticipantsCount int64     `json:"participants_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// Application represents the applications table: one job submission.
// Rows are append-only facts; the resume lives in private storage and
// ResumeKey records only its object key, never a URL.
type Application struct {
	ID          int64     `json:"id"`
	PostingID   *int64    `json:"posting_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	LinkedinURL *string   `json:"linkedin_url"`
	ResumeKey   string    `json:"resume_url"`
	IPAddress   string    `json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`
}

// Collaborator represents the collaborators table: one pledge to an idea.
type Collaborator struct {
	ID             int64     `json:"id"`
	IdeaID         int64     `json:"idea_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	CommittedHours int64     `json:"committed_hours"`
	CreatedAt      time.Time `json:"created_at"`
}

// Participant is the public projection of a collaborator shown on an
// idea's detail view.
type Participant struct {
	FullName       string    `json:"full_name"`
	CommittedHours int64     `json:"committed_hours"`
	CreatedAt      time.Time `json:"created_at"`
}

// Recruiter represents the recruiters table: a public recruiter profile.
type Recruiter struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Highlights  string    `json:"highlights"`
	CalendarID  string    `json:"calendar_id"`
	Slug        string    `json:"slug"`
	HeadshotURL *string   `json:"headshot_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Prospect represents the prospects table: an inbound contact.
type Prospect struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead represents the leads table: a booking request against a recruiter.
type Lead struct {
	ID               int64     `json:"id"`
	RecruiterID      int64     `json:"recruiter_id"`
	CandidateName    string    `json:"candidate_name"`
	CandidateEmail   string    `json:"candidate_email"`
	CandidatePhone   string    `json:"candidate_phone"`
	PreferredWindows string    `json:"preferred_windows"`
	CreatedAt        time.Time `json:"created_at"`
}
