// Package testutil provides helpers for exercising the dashboard HTTP API in
// tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// MakeJSONRequest performs a JSON request against the engine and decodes the
// response body into a generic map.
func MakeJSONRequest(body gin.H, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	payload, _ := json.Marshal(body)

	req, _ := http.NewRequest(method, endpoint, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+authToken)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// MakeUploadRequest performs a multipart upload with a single "file" part.
func MakeUploadRequest(filename string, content []byte, authToken string, r *gin.Engine, endpoint string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", filename)
	_, _ = part.Write(content)
	_ = mw.Close()

	req, _ := http.NewRequest(http.MethodPost, endpoint, &buf)
	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}
