package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tftdatascientist/drdoc/internal/service"
	"github.com/tftdatascientist/drdoc/internal/testutil"
)

const sampleMarkdown = "# Demo\n\nA small demo project used by the API tests.\n\n## Features\n\n- fast\n- small\n\n```go\nfmt.Println(\"hi\")\n```\n"

// testEnv sets up a temp output root, service and router.
// An empty authToken means auth is disabled.
func testEnv(t *testing.T, authToken string) (string, http.Handler) {
	t.Helper()
	return testEnvFull(t, authToken != "", authToken, nil, 16<<20)
}

func testEnvFull(t *testing.T, authEnabled bool, authToken string, sse http.Handler, maxBody int64) (string, http.Handler) {
	t.Helper()
	root, mat := testutil.Materializer(t)
	svc := service.New(testutil.Pipeline(), mat)
	return root, NewRouter(svc, authEnabled, authToken, sse, maxBody)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDetect(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/detect", map[string]string{"content": `{"name": "x"}`})
	if w.Code != http.StatusOK {
		t.Fatalf("detect status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp DetectResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Format != "json" || resp.Confidence != 1.0 {
		t.Errorf("detect = %+v, want json/1.0", resp)
	}
}

func TestDetect_EmptyContent(t *testing.T) {
	_, router := testEnv(t, "")

	for _, body := range []any{map[string]string{}, map[string]string{"content": "   "}} {
		w := do(t, router, http.MethodPost, "/detect", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("empty detect = %d, want 400", w.Code)
		}
	}
}

func TestInvalidJSONBody(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/transform", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d, want 400", w.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	_, router := testEnvFull(t, false, "", nil, 64)

	w := do(t, router, http.MethodPost, "/detect", map[string]string{"content": strings.Repeat("x", 200)})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversize = %d, want 413", w.Code)
	}
}

func TestParse(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/parse", map[string]string{"content": sampleMarkdown, "format": "md"})
	if w.Code != http.StatusOK {
		t.Fatalf("parse status = %d, body = %s", w.Code, w.Body.String())
	}
	var doc struct {
		Format     string `json:"format"`
		Title      string `json:"title"`
		CodeBlocks []any  `json:"code_blocks"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	if doc.Format != "markdown" || doc.Title != "Demo" || len(doc.CodeBlocks) != 1 {
		t.Errorf("parse = %+v", doc)
	}
}

func TestParse_BadFormat(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/parse", map[string]string{"content": "x", "format": "yaml"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad format = %d, want 400", w.Code)
	}
}

func TestTransform_PreviewByDefault(t *testing.T) {
	root, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/transform", map[string]any{
		"content":     sampleMarkdown,
		"format":      "auto",
		"destination": "github",
		"options":     map[string]any{"project_name": "demo"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transform status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp TransformResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.FilesCount == 0 || len(resp.Files) != resp.FilesCount {
		t.Errorf("files_count = %d, files = %d", resp.FilesCount, len(resp.Files))
	}
	if !strings.HasPrefix(resp.FileTree, ".\n") || !strings.Contains(resp.FileTree, "README.md") {
		t.Errorf("file_tree = %q", resp.FileTree)
	}
	if _, err := os.Stat(filepath.Join(root, "demo")); !os.IsNotExist(err) {
		t.Error("preview must not write files")
	}
}

func TestTransform_Generate(t *testing.T) {
	root, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/transform", map[string]any{
		"content":     sampleMarkdown,
		"destination": "chatgpt",
		"options": map[string]any{
			"project_name": "ctx",
			"preview":      false,
			"goal":         "Explain the project",
			"requirements": []string{"short", "clear"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transform status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp TransformResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Files != nil {
		t.Error("files must be omitted when not previewing")
	}
	if resp.OutputPath != filepath.Join(root, "ctx") {
		t.Errorf("output_path = %q", resp.OutputPath)
	}
	if len(resp.GeneratedFiles) != 1 || resp.GeneratedFiles[0] != "context.md" {
		t.Errorf("generated_files = %v", resp.GeneratedFiles)
	}
	data, err := os.ReadFile(filepath.Join(root, "ctx", "context.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "1. short\n2. clear") {
		t.Errorf("requirements not rendered: %s", data)
	}
}

func TestTransform_UnknownDestination(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/transform", map[string]any{
		"content":     sampleMarkdown,
		"destination": "bogus",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown destination = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unknown destination") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestTransform_MissingDestination(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/transform", map[string]any{"content": sampleMarkdown})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing destination = %d, want 400", w.Code)
	}
}

func TestTransform_ProjectBrief(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/transform", map[string]any{
		"content":     sampleMarkdown,
		"destination": "project_brief",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("project_brief = %d, body = %s", w.Code, w.Body.String())
	}
	var resp TransformResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Metadata["context_type"] != "project_brief" {
		t.Errorf("metadata = %v", resp.Metadata)
	}
}

func TestFormatsAndDestinations(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/formats", nil)
	var formats FormatsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &formats)
	if len(formats.Formats) != 3 || formats.Formats[0] != "text" {
		t.Errorf("formats = %v", formats.Formats)
	}

	w = do(t, router, http.MethodGet, "/destinations", nil)
	var dests DestinationsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &dests)
	if strings.Join(dests.Destinations, ",") != "github,chatgpt,project_brief" {
		t.Errorf("destinations = %v", dests.Destinations)
	}
	if len(dests.ContextTypes) != 4 {
		t.Errorf("context_types = %v", dests.ContextTypes)
	}
}

func TestHealth_Public(t *testing.T) {
	_, router := testEnv(t, "secret")

	w := do(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
	var h HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &h)
	if h.Status != "healthy" || h.Version != service.Version {
		t.Errorf("health = %+v", h)
	}
}

func TestOutputEndpoints(t *testing.T) {
	root, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/transform", map[string]any{
		"content":     sampleMarkdown,
		"destination": "github",
		"options":     map[string]any{"project_name": "demo", "preview": false},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transform = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/output/demo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var list OutputListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	found := false
	for _, f := range list.Files {
		if f.Path == "README.md" {
			found = true
		}
	}
	if !found {
		t.Errorf("README.md missing from %+v", list.Files)
	}

	w = do(t, router, http.MethodGet, "/output/demo/README.md", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "# ") {
		t.Errorf("read = %d, body = %q", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/output/demo/missing.md", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing file = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodDelete, "/output/demo/README.md", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete file = %d, want 204", w.Code)
	}
	if _, err := os.Stat(filepath.Join(root, "demo", "README.md")); !os.IsNotExist(err) {
		t.Error("README.md not removed")
	}
	w = do(t, router, http.MethodDelete, "/output/demo/README.md", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing file = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodDelete, "/output/demo", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}
	if _, err := os.Stat(filepath.Join(root, "demo")); !os.IsNotExist(err) {
		t.Error("project not removed")
	}

	w = do(t, router, http.MethodGet, "/output/demo", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("list after delete = %d, want 404", w.Code)
	}
}

func TestOutput_Traversal(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/output/demo/..%2F..%2Fsecret", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("traversal = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/formats", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	w := do(t, router, http.MethodGet, "/formats", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

// SSE endpoint auth tests.

func blockingSSE() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router := testEnvFull(t, true, "secret", blockingSSE(), 0)

	w := do(t, router, http.MethodGet, "/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	_, router := testEnvFull(t, true, "tok", blockingSSE(), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with valid token = %d, want 200", w.Code)
	}
}
