package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmbeddedOrder(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"sanitation", "public-works", "road-maintenance", "water-supply", "general"}
	got := r.IDs()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	d, ok := r.Lookup("water-supply")
	if !ok || d.Name != "Water Supply Department" || d.Email != "water@city.gov" {
		t.Fatalf("lookup water-supply = %+v ok=%v", d, ok)
	}
	if _, ok := r.Lookup("parks"); ok {
		t.Fatalf("unexpected department parks")
	}
}

func TestLoad_KeepsKeywords(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, d := range r.All() {
		if len(d.Keywords) == 0 {
			t.Fatalf("%s has no keywords", d.ID)
		}
	}
	d, _ := r.Lookup("sanitation")
	if d.Keywords[0] != "garbage" || d.Keywords[3] != "sanitation" {
		t.Fatalf("sanitation keywords = %v", d.Keywords)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "deps.json")
	body := `[{"id":"parks","name":"Parks Department","categories":["tree","bench"]},{"id":"general"}]`
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	d, _ := r.Lookup("parks")
	if len(d.Keywords) != 2 || d.Keywords[0] != "tree" {
		t.Fatalf("keywords = %v", d.Keywords)
	}
}

func TestNew_RejectsDuplicatesAndEmpty(t *testing.T) {
	if _, err := New(Department{ID: "a"}, Department{ID: " a "}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := New(Department{ID: "  "}); err == nil {
		t.Fatalf("expected empty id error")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	r, err := New(Department{ID: "a", Name: "A"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	all := r.All()
	all[0].Name = "changed"
	if d, _ := r.Lookup("a"); d.Name != "A" {
		t.Fatalf("registry mutated through All(): %+v", d)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "deps.yaml")
	body := `
- id: parks
  name: Parks Department
  email: parks@city.gov
  categories: [tree, bench]
  category: other
- id: general
  name: General Services Department
`
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if r.Len() != 2 || !r.Has("parks") || !r.Has("general") {
		t.Fatalf("unexpected registry %v", r.IDs())
	}
	d, _ := r.Lookup("parks")
	if len(d.Keywords) != 2 || d.Keywords[1] != "bench" {
		t.Fatalf("keywords = %v", d.Keywords)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error")
	}
}
