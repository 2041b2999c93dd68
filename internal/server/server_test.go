package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pdf-extractor/internal/bootstrap"
	"pdf-extractor/internal/config"
	"pdf-extractor/internal/dto"
	"pdf-extractor/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `{"data":{"name":" Jane Doe ","address":"123 Main St, , Springfield","phone":null,"role":"Engineer",
"confidence":{"name":0.92,"address":0.55,"phone":0.1,"role":0.8}}}`

func newTestApp(t *testing.T, extractorURL string) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			LogFilePath:        filepath.Join(dir, "app.log"),
			WsLogFilePath:      filepath.Join(dir, "ws.log"),
			CorsAllowedOrigins: "*",
			MaxUploadMB:        1,
		},
		Extraction: config.ExtractionConfig{URL: extractorURL},
		Session:    config.SessionConfig{Secret: "test-secret", TTL: time.Hour, CleanupInterval: time.Hour},
		Infra:      config.InfraConfig{StateTopic: "state"},
	}
	container, err := bootstrap.NewContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	return New(cfg, container).GetApp()
}

func fakeExtractor(t *testing.T, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func do[T any](t *testing.T, app *fiber.App, req *http.Request) (int, envelope[T]) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createSession(t *testing.T, app *fiber.App) string {
	status, env := do[dto.CreateSessionResponse](t, app, httptest.NewRequest("POST", "/api/sessions", nil))
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, env.Data.Token)
	return env.Data.Token
}

func uploadRequest(t *testing.T, token, filename, contentType string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/session/file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func authed(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestServer_UploadAndExtract(t *testing.T) {
	app := newTestApp(t, fakeExtractor(t, successBody).URL)
	token := createSession(t, app)

	status, env := do[dto.UIStateResponse](t, app, authed("GET", "/api/session/state", token))
	require.Equal(t, 200, status)
	assert.Equal(t, "idle", env.Data.Status)
	assert.False(t, env.Data.CanSubmit)
	assert.Equal(t, "Extract Information", env.Data.SubmitLabel)

	status, env = do[dto.UIStateResponse](t, app, uploadRequest(t, token, "cv.pdf", "application/pdf"))
	require.Equal(t, 200, status)
	assert.True(t, env.Data.CanSubmit)
	require.NotNil(t, env.Data.File)
	assert.Equal(t, "cv.pdf", env.Data.File.Name)

	status, env = do[dto.UIStateResponse](t, app, authed("POST", "/api/session/submit", token))
	require.Equal(t, 200, status)
	assert.Equal(t, "success", env.Data.Status)
	require.Len(t, env.Data.Fields, 4)
	assert.Equal(t, "Jane Doe", env.Data.Fields[0].Value)
	assert.Equal(t, "Not found", env.Data.Fields[1].Value)
	assert.Equal(t, "123 Main St, Springfield", env.Data.Fields[2].Value)
	assert.Equal(t, "#FFA726", env.Data.Fields[2].Confidence.Color)

	resp, err := app.Test(authed("GET", "/api/session/export", token), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cv-extraction.xlsx")
}

func TestServer_ServiceErrorIsState(t *testing.T) {
	app := newTestApp(t, fakeExtractor(t, `{"error":"Corrupted PDF"}`).URL)
	token := createSession(t, app)

	do[dto.UIStateResponse](t, app, uploadRequest(t, token, "cv.pdf", "application/pdf"))
	status, env := do[dto.UIStateResponse](t, app, authed("POST", "/api/session/submit", token))

	assert.Equal(t, 200, status)
	assert.Equal(t, "error", env.Data.Status)
	assert.Equal(t, "Corrupted PDF", env.Data.Error)

	status, _ = do[any](t, app, authed("GET", "/api/session/export", token))
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestServer_NonPDFUpload(t *testing.T) {
	app := newTestApp(t, fakeExtractor(t, successBody).URL)
	token := createSession(t, app)

	status, env := do[dto.UIStateResponse](t, app, uploadRequest(t, token, "photo.png", "image/png"))

	assert.Equal(t, 200, status)
	assert.Equal(t, "Please select a valid PDF file", env.Data.Error)
	assert.Nil(t, env.Data.File)
}

func TestServer_AuthAndLookupErrors(t *testing.T) {
	app := newTestApp(t, fakeExtractor(t, successBody).URL)

	status, env := do[any](t, app, httptest.NewRequest("GET", "/api/session/state", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)

	orphan, err := serverutils.IssueSessionToken("test-secret", uuid.NewString(), time.Hour)
	require.NoError(t, err)
	status, _ = do[any](t, app, authed("POST", "/api/session/submit", orphan))
	assert.Equal(t, fiber.StatusNotFound, status)

	token := createSession(t, app)
	status, _ = do[any](t, app, authed("POST", "/api/session/file", token))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = do[any](t, app, uploadRequest(t, token, strings.Repeat("a", 300)+".pdf", "application/pdf"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Message, "Filename")

	status, state := do[dto.UIStateResponse](t, app, authed("GET", "/api/session/state", token))
	assert.Equal(t, 200, status)
	assert.Nil(t, state.Data.File)
}

func TestServer_HealthAndPage(t *testing.T) {
	app := newTestApp(t, fakeExtractor(t, successBody).URL)

	status, _ := do[map[string]int](t, app, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, status)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "PDF Information Extractor")

	resp, err = app.Test(httptest.NewRequest("GET", "/app.js", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	script, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(script), "Content-Disposition")
}
