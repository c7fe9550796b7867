package net_test

import (
	"context"
	"testing"

	pnet "resolveit/internal/platform/net"
)

func TestRequestID(t *testing.T) {
	base := context.Background()
	if pnet.WithRequest(base, "") != base {
		t.Fatal("empty id should not wrap ctx")
	}
	ctx := pnet.WithRequest(base, "host/abc-000001")
	if got := pnet.RequestID(ctx); got != "host/abc-000001" {
		t.Fatalf("RequestID = %q", got)
	}
	if pnet.RequestID(base) != "" {
		t.Fatal("expected empty id")
	}
}

func TestPrincipal(t *testing.T) {
	ctx := pnet.WithPrincipal(context.Background(), "dispatcher")
	if got := pnet.Principal(ctx); got != "dispatcher" {
		t.Fatalf("Principal = %q", got)
	}
	if pnet.Principal(context.Background()) != "" {
		t.Fatal("expected empty principal")
	}
}
