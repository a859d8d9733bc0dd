package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Upload writes an object into a bucket. The bucket's own policy decides
// whether this access level may write; private buckets require the service
// role handle.
func (ac *AccessContext) Upload(ctx context.Context, bucket, key string, data []byte, opts *UploadOptions) error {
	urlStr := fmt.Sprintf("%s/object/%s/%s", ac.client.storageURL, url.PathEscape(bucket), url.PathEscape(key))

	headers := map[string]string{}
	if opts != nil {
		if opts.ContentType != "" {
			headers["Content-Type"] = opts.ContentType
		}
		if opts.CacheControl != "" {
			headers["Cache-Control"] = opts.CacheControl
		}
		if opts.Upsert {
			headers["x-upsert"] = "true"
		}
	}
	if headers["Content-Type"] == "" {
		headers["Content-Type"] = "application/octet-stream"
	}

	respBody, _, statusCode, err := ac.do(ctx, "POST", urlStr, data, headers)
	if err != nil {
		return err
	}
	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}
	return nil
}

// RemoveObjects deletes objects from a bucket.
func (ac *AccessContext) RemoveObjects(ctx context.Context, bucket string, keys []string) error {
	urlStr := fmt.Sprintf("%s/object/%s", ac.client.storageURL, url.PathEscape(bucket))

	body, err := json.Marshal(map[string]interface{}{"prefixes": keys})
	if err != nil {
		return fmt.Errorf("supabase: marshal request: %w", err)
	}

	respBody, _, statusCode, err := ac.do(ctx, "DELETE", urlStr, body, nil)
	if err != nil {
		return err
	}
	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}
	return nil
}

// CreateSignedURL asks the storage API to sign a time-limited URL for one
// object. The returned URL is absolute and grants read access until expiry.
func (ac *AccessContext) CreateSignedURL(ctx context.Context, bucket, key string, expiresIn int) (string, error) {
	urlStr := fmt.Sprintf("%s/object/sign/%s/%s", ac.client.storageURL, url.PathEscape(bucket), url.PathEscape(key))

	body, err := json.Marshal(map[string]interface{}{"expiresIn": expiresIn})
	if err != nil {
		return "", fmt.Errorf("supabase: marshal request: %w", err)
	}

	respBody, _, statusCode, err := ac.do(ctx, "POST", urlStr, body, nil)
	if err != nil {
		return "", err
	}
	if statusCode >= 400 {
		return "", parseError(respBody, statusCode)
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("supabase: unmarshal response: %w", err)
	}

	return ac.client.storageURL + result.SignedURL, nil
}
