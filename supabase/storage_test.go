package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPostsObjectWithContentType(t *testing.T) {
	var gotPath, gotContentType, gotUpsert string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"Key":"resumes/resume-1.pdf"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	svc, err := client.Service()
	require.NoError(t, err)

	err = svc.Upload(context.Background(), "resumes", "resume-1.pdf", []byte("%PDF-1.7"), &UploadOptions{
		ContentType: "application/pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/resumes/resume-1.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotContentType)
	assert.Empty(t, gotUpsert)
	assert.Equal(t, []byte("%PDF-1.7"), gotBody)
}

func TestUploadDefaultsToOctetStream(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	svc, err := client.Service()
	require.NoError(t, err)

	require.NoError(t, svc.Upload(context.Background(), "resumes", "blob", []byte("x"), nil))
	assert.Equal(t, "application/octet-stream", gotContentType)
}

func TestUploadSurfacesStorageErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"Unauthorized","message":"new row violates row-level security policy"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.Anon().Upload(context.Background(), "resumes", "resume-1.pdf", []byte("x"), nil)
	require.Error(t, err)

	var sbErr *Error
	require.ErrorAs(t, err, &sbErr)
	assert.Equal(t, http.StatusForbidden, sbErr.StatusCode)
}

func TestCreateSignedURLPrefixesStorageEndpoint(t *testing.T) {
	var gotPath string
	var gotExpires float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotExpires, _ = body["expiresIn"].(float64)

		w.Write([]byte(`{"signedURL":"/object/sign/resumes/resume-1.pdf?token=abc"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	svc, err := client.Service()
	require.NoError(t, err)

	signed, err := svc.CreateSignedURL(context.Background(), "resumes", "resume-1.pdf", 60)
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/sign/resumes/resume-1.pdf", gotPath)
	assert.Equal(t, float64(60), gotExpires)
	assert.Equal(t, server.URL+"/storage/v1/object/sign/resumes/resume-1.pdf?token=abc", signed)
}

func TestRemoveObjectsSendsPrefixes(t *testing.T) {
	var gotMethod string
	var gotBody map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	svc, err := client.Service()
	require.NoError(t, err)

	require.NoError(t, svc.RemoveObjects(context.Background(), "resumes", []string{"a.pdf", "b.pdf"}))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, gotBody["prefixes"])
}

func TestGetUserResolvesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer session-jwt", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"1f6d0c55-7d5c-4f4f-9adf-2d3a9f9f0001","email":"ops@example.com","role":"authenticated"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	user, err := client.GetUser(context.Background(), "session-jwt")
	require.NoError(t, err)
	assert.Equal(t, "1f6d0c55-7d5c-4f4f-9adf-2d3a9f9f0001", user.ID)
	assert.Equal(t, "ops@example.com", user.Email)
}

func TestGetUserRejectsBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid JWT"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetUser(context.Background(), "garbage")
	require.Error(t, err)
}
