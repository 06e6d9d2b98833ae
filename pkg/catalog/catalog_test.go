package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open("sqlite", filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Failed to open catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "history.db")
	c, err := Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Error("mysql accepted")
	}
}

func TestRecordAndGet(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := Entry{
		ID: "a1", Kind: KindBuilding, Style: "modern", Printer: "fdm", Seed: 7,
		Triangles: 1234, Watertight: true, Warnings: 2, GenerationMS: 90,
		CreatedAt: at, Params: json.RawMessage(`{"style":"modern"}`),
	}
	if err := c.Record(ctx, e); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Style != "modern" || got.Seed != 7 || !got.Watertight || got.Triangles != 1234 || got.Warnings != 2 {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("created %v, want %v", got.CreatedAt, at)
	}
	if string(got.Params) != `{"style":"modern"}` {
		t.Errorf("params %s", got.Params)
	}

	if err := c.Record(ctx, e); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second record: err = %v, want duplicate", err)
	}
	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestRecent(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, style := range []string{"modern", "tropical", "modern", "victorian"} {
		e := Entry{
			ID: string(rune('a' + i)), Kind: KindBuilding, Style: style, Printer: "fdm",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := c.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := c.Recent(ctx, "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "d" || all[2].ID != "b" {
		t.Errorf("recent = %v", ids(all))
	}
	modern, err := c.Recent(ctx, "modern", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(modern) != 2 || modern[0].ID != "c" {
		t.Errorf("modern = %v", ids(modern))
	}
	if string(modern[0].Params) != "{}" {
		t.Errorf("empty params stored as %q", modern[0].Params)
	}
}

func TestRecordBoardKinds(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "p1", Kind: KindProperty, Style: "classical", Printer: "fdm", CreatedAt: at},
		{ID: "b1", Kind: KindBoard, Style: "loop", Printer: "fdm", Triangles: 90000, CreatedAt: at.Add(time.Minute)},
	}
	for _, e := range entries {
		if err := c.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	got, err := c.Get(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindBoard || got.Style != "loop" || got.Triangles != 90000 {
		t.Errorf("got %+v", got)
	}
	recent, err := c.Recent(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[1].Kind != KindProperty {
		t.Errorf("recent = %v", ids(recent))
	}
}

func ids(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE b = ? AND c = ?"
	if got := rebind(sqliteDialect{}, q); got != q {
		t.Errorf("sqlite: %s", got)
	}
	if got, want := rebind(postgresDialect{}, q), "SELECT a FROM t WHERE b = $1 AND c = $2"; got != want {
		t.Errorf("postgres: %s, want %s", got, want)
	}
}
