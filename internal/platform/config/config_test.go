package config

import (
	"testing"
	"time"

	kit "resolveit/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("API_")
	if got := c.Key("PORT"); got != "CORE_API_PORT" {
		t.Fatalf("Key() = %q", got)
	}
}

func TestEnvLookup(t *testing.T) {
	t.Setenv("CORE_REALTIME_GROUP", "  ops-room ")
	c := New().Prefix("CORE_REALTIME_")
	if got := c.MayString("GROUP", "admin-dashboard"); got != "ops-room" {
		t.Fatalf("MayString = %q", got)
	}
	if !c.Has("GROUP") || c.Has("QUEUE") {
		t.Fatalf("Has mismatch")
	}
}

func TestMustString(t *testing.T) {
	c := FromMap(map[string]string{"SERVICE_PGSQL_DBURL": "postgres://x"}).Prefix("SERVICE_PGSQL_")
	if got := c.MustString("DBURL"); got != "postgres://x" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMayScalars(t *testing.T) {
	c := FromMap(map[string]string{
		"QUEUE":  "512",
		"BADINT": "lots",
		"ON":     "true",
		"BADB":   "maybe",
		"PING":   "5s",
		"BADD":   "soon",
	})
	cases := []struct {
		name string
		got  any
		want any
	}{
		{"int", c.MayInt("QUEUE", 256), 512},
		{"int default", c.MayInt("NOPE", 256), 256},
		{"int invalid", c.MayInt("BADINT", 7), 7},
		{"bool", c.MayBool("ON", false), true},
		{"bool invalid", c.MayBool("BADB", false), false},
		{"dur", c.MayDuration("PING", time.Second), 5 * time.Second},
		{"dur invalid", c.MayDuration("BADD", time.Minute), time.Minute},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestMayCSV(t *testing.T) {
	c := FromMap(map[string]string{"ORIGINS": " http://a , ,http://b ", "BLANK": " , "})
	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("MayCSV = %v", got)
	}
	if got := c.MayCSV("BLANK", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV default = %v", got)
	}
}

func TestMayAddr(t *testing.T) {
	c := FromMap(map[string]string{"BARE": "8080", "HOST": "127.0.0.1:9000", "BAD": "99999"})
	if got := c.MayAddr("BARE", ":4000"); got != ":8080" {
		t.Fatalf("bare = %q", got)
	}
	if got := c.MayAddr("HOST", ":4000"); got != "127.0.0.1:9000" {
		t.Fatalf("host = %q", got)
	}
	if got := c.MayAddr("UNSET", ":4000"); got != ":4000" {
		t.Fatalf("default = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MayAddr("BAD", ":4000") })
}

func TestMayEnum(t *testing.T) {
	c := FromMap(map[string]string{"ENC": "CBOR", "BAD": "xml"})
	if got := c.MayEnum("ENC", "json", "json", "cbor"); got != "cbor" {
		t.Fatalf("enum = %q", got)
	}
	if got := c.MayEnum("UNSET", "json", "json", "cbor"); got != "json" {
		t.Fatalf("enum default = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "json", "json", "cbor") })
}
