package services

import (
	"context"

	"talenthub-api/supabase"
)

// SignedLinkTTL is how long an issued resume link stays valid, in seconds.
const SignedLinkTTL = 60

// ResumeLinkIssuer generates short-lived signed URLs into the private
// resume bucket. Callers must pass the admin gate first; the issuer itself
// performs no authorization.
type ResumeLinkIssuer struct {
	store  *supabase.Client
	bucket string
}

func NewResumeLinkIssuer(store *supabase.Client, bucket string) *ResumeLinkIssuer {
	return &ResumeLinkIssuer{store: store, bucket: bucket}
}

// IssueLink signs a time-boxed URL for one stored resume. The link is not
// persisted and cannot be regenerated identically.
func (i *ResumeLinkIssuer) IssueLink(ctx context.Context, objectKey string) (string, error) {
	svc, err := i.store.Service()
	if err != nil {
		return "", err
	}
	return svc.CreateSignedURL(ctx, i.bucket, objectKey, SignedLinkTTL)
}
