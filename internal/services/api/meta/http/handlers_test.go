package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resolveit/internal/core/registry"
	"resolveit/internal/core/routing"
	"resolveit/internal/modkit/module"
	"resolveit/internal/modkit/repokit"
	phttp "resolveit/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, d Deps, path string, out any) int {
	t.Helper()
	root := phttp.AdaptChi(chi.NewRouter())
	Register(root, d)
	rec := httptest.NewRecorder()
	root.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatal(err)
	}
	return rec.Code
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		pg, ch repokit.Pinger
		want   string
		checks [2]string
	}{
		{"nothing configured", nil, nil, "ok", [2]string{"skipped", "skipped"}},
		{"all up", pinger{}, pinger{}, "ok", [2]string{"ok", "ok"}},
		{"ch down", pinger{}, pinger{err: errors.New("refused")}, "fail", [2]string{"ok", "fail"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got ReadyResponse
			code := get(t, Deps{PG: tc.pg, CH: tc.ch}, "/ready", &got)
			if code != stdhttp.StatusOK || got.Status != tc.want {
				t.Fatalf("ready = %d %+v", code, got)
			}
			for i, c := range got.Checks {
				if c.Status != tc.checks[i] {
					t.Fatalf("check %s = %s", c.Name, c.Status)
				}
			}
		})
	}
}

func TestServiceAndRouter(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)
	module.Register("reports", nil)
	module.Register("meta", nil)

	reg, err := registry.Load()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := routing.LoadTable()
	if err != nil {
		t.Fatal(err)
	}
	rt, err := routing.New(tbl, reg)
	if err != nil {
		t.Fatal(err)
	}
	d := Deps{ServiceName: "resolveit-api", StartedAt: time.Now().Add(-time.Minute), Routing: rt}

	var svc ServiceResponse
	get(t, d, "/service", &svc)
	if svc.Uptime < 59 || len(svc.Modules) != 2 || svc.Modules[0] != "meta" {
		t.Fatalf("service = %+v", svc)
	}

	var table routing.Table
	get(t, d, "/router", &table)
	if len(table.Rules) != 5 || table.Rules[0].DepartmentID != "water-supply" || table.Categories["other"] != "general" {
		t.Fatalf("router = %+v", table)
	}

	var h HealthResponse
	get(t, d, "/health", &h)
	if !h.OK || h.Service != "resolveit-api" {
		t.Fatalf("health = %+v", h)
	}
}
