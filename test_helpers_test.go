package main

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"tubos/internal/testutil"
)

// setupTest swaps the global store and secret for per-test instances.
func setupTest(t *testing.T) {
	t.Helper()
	oldStore, oldSecret := appStore, jwtSecret
	appStore = testutil.OpenStore(t)
	jwtSecret = testutil.Secret
	t.Cleanup(func() { appStore, jwtSecret = oldStore, oldSecret })
}

// doRequest runs a request through the auth middleware and router.
func doRequest(t *testing.T, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	return doRequestCT(t, method, path, token, "application/json", body)
}

func doRequestCT(t *testing.T, method, path, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	requireAuth(newMux()).ServeHTTP(w, req)
	return w
}

// multipartFile wraps content as a multipart body with one file field.
func multipartFile(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return &b, mw.FormDataContentType()
}
