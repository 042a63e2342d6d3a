package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"boards/internal/auth"
	"boards/internal/config"
	"boards/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := sqlite.Open(":memory:", logger)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTAlgorithm:  "HS256",
		JWTTTLMinutes: 60,
		BcryptCost:    bcrypt.MinCost,
	}
	tokens, err := auth.NewTokenService(cfg)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	return New(store, tokens, cfg, logger)
}

// doJSON performs a request against the server and returns the recorder.
// An empty token leaves the Authorization header unset.
func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// mustSignup registers a user and returns its id.
func mustSignup(t *testing.T, srv *Server, name, email, password string) int64 {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/signup", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup(%q): expected 201, got %d: %s", email, w.Code, w.Body.String())
	}
	user := decodeBody(t, w)["user"].(map[string]any)
	return int64(user["id"].(float64))
}

// mustLogin authenticates and returns a bearer token.
func mustLogin(t *testing.T, srv *Server, email, password string) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/login", "", gin.H{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login(%q): expected 200, got %d: %s", email, w.Code, w.Body.String())
	}
	return decodeBody(t, w)["access_token"].(string)
}

// mustCreateProject creates a project through the API and returns its id.
func mustCreateProject(t *testing.T, srv *Server, token, title string) int64 {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/projects", token, gin.H{"title": title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project(%q): expected 201, got %d: %s", title, w.Code, w.Body.String())
	}
	project := decodeBody(t, w)["project"].(map[string]any)
	return int64(project["id"].(float64))
}

// mustCreateTask creates a task through the API and returns its id.
func mustCreateTask(t *testing.T, srv *Server, token string, projectID int64, body gin.H) int64 {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, projectPath(projectID)+"/tasks", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	task := decodeBody(t, w)["task"].(map[string]any)
	return int64(task["id"].(float64))
}

func projectPath(id int64) string {
	return "/api/projects/" + strconv.FormatInt(id, 10)
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}
