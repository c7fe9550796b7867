package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "resolveit/internal/platform/net/http"
	kit "resolveit/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func serve(t *testing.T, enabled bool, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, enabled)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDocJSON(t *testing.T) {
	kit.Serial(t)
	Register(func(spec map[string]any) { spec["x-test"] = true })

	rec := serve(t, true, "/api/docs/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatal(err)
	}
	if spec["openapi"] != "3.0.3" || spec["x-test"] != true {
		t.Fatalf("openapi=%v x-test=%v", spec["openapi"], spec["x-test"])
	}
	paths := spec["paths"].(map[string]any)
	post := paths["/reports"].(map[string]any)["post"].(map[string]any)
	responses := post["responses"].(map[string]any)
	for _, code := range []string{"201", "429", "500"} {
		if _, ok := responses[code]; !ok {
			t.Fatalf("POST /reports missing %s response", code)
		}
	}
}

func TestDocJSON_BrokenDocument(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &docReader, func() string { return "{" })
	if rec := serve(t, true, "/api/docs/doc.json"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestMount_Disabled(t *testing.T) {
	if rec := serve(t, false, "/api/docs/doc.json"); rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestEnsureServers(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "/api/v1")
	if spec["openapi"] != "3.0.3" || spec["swagger"] != nil {
		t.Fatalf("spec = %v", spec)
	}
	servers := spec["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", servers)
	}
}
