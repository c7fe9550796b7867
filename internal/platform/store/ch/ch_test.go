package ch

import (
	"context"
	"errors"
	"testing"

	kit "resolveit/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type fakeBatch struct {
	driver.Batch
	rows    [][]any
	sent    bool
	aborted bool
}

func (b *fakeBatch) Append(v ...any) error { b.rows = append(b.rows, v); return nil }
func (b *fakeBatch) Send() error           { b.sent = true; return nil }
func (b *fakeBatch) Abort() error          { b.aborted = true; return nil }

type fakeConn struct {
	query   string
	batch   *fakeBatch
	pingErr error
	closed  bool
}

func (f *fakeConn) PrepareBatch(_ context.Context, q string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	f.query = q
	f.batch = &fakeBatch{}
	return f.batch, nil
}
func (f *fakeConn) Exec(context.Context, string, ...any) error { return nil }
func (f *fakeConn) Ping(context.Context) error                 { return f.pingErr }
func (f *fakeConn) Close() error                               { f.closed = true; return nil }

func TestInsertSQL(t *testing.T) {
	q, err := insertSQL("analytics.report_events", []string{"seq", "type", "report_id"})
	if err != nil || q != "INSERT INTO analytics.report_events (seq, type, report_id)" {
		t.Fatalf("q=%q err=%v", q, err)
	}
	for _, bad := range []struct {
		table string
		cols  []string
	}{
		{"events; DROP TABLE x", []string{"a"}},
		{"events", nil},
		{"events", []string{"a b"}},
	} {
		if _, err := insertSQL(bad.table, bad.cols); err == nil {
			t.Fatalf("expected error for %q %v", bad.table, bad.cols)
		}
	}
}

func TestInsertRows(t *testing.T) {
	fc := &fakeConn{}
	c := &CH{c: fc}
	rows := [][]any{{uint64(1), "report:new"}, {uint64(2), "report:reassigned"}}
	if err := c.InsertRows(context.Background(), "report_events", []string{"seq", "type"}, rows); err != nil {
		t.Fatal(err)
	}
	if !fc.batch.sent || len(fc.batch.rows) != 2 {
		t.Fatalf("batch = %+v", fc.batch)
	}

	err := c.InsertRows(context.Background(), "report_events", []string{"seq", "type"}, [][]any{{uint64(1)}})
	if err == nil || !fc.batch.aborted {
		t.Fatal("short row should abort the batch")
	}

	fc.batch = nil
	if err := c.InsertRows(context.Background(), "report_events", []string{"seq"}, nil); err != nil || fc.batch != nil {
		t.Fatal("empty insert should not prepare a batch")
	}
}

func TestOpen(t *testing.T) {
	fc := &fakeConn{}
	var got *clickhouse.Options
	kit.Swap(t, &openConn, func(o *clickhouse.Options) (conn, error) { got = o; return fc, nil })

	c, err := Open(context.Background(), Config{URL: "clickhouse://u:p@localhost:9000/analytics", ClientInfo: BuildClientInfo("api", "test")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Auth.Database != "analytics" || len(got.ClientInfo.Products) == 0 {
		t.Fatalf("options = %+v", got)
	}
	_ = c.Close()
	if !fc.closed {
		t.Fatal("close not forwarded")
	}

	fc = &fakeConn{pingErr: errors.New("down")}
	if _, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000"}); err == nil || !fc.closed {
		t.Fatal("failed ping should close and error")
	}
}
