package filesource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/liveset/internal/change"
	"github.com/dshills/liveset/internal/observable"
	"github.com/dshills/liveset/internal/record"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.yaml")
	writeFile(t, path, "- id: tom\n  colour: grey\n- id: felix\n")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}

	if diff := cmp.Diff([]string{"tom", "felix"}, ids(s.Items())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if s.Name() != "cats.yaml" {
		t.Errorf("Name() = %q, want cats.yaml", s.Name())
	}
	if !filepath.IsAbs(s.Path()) {
		t.Errorf("Path() = %q, want absolute", s.Path())
	}
	if got := s.Stats().Loads; got != 1 {
		t.Errorf("Loads = %d, want 1", got)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "- colour: grey\n")

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml")},
		{"invalid records", bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Open error = %v, want *LoadError", err)
			}
		})
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.yaml")
	writeFile(t, path, "- id: a\n- id: b\n- id: c\n")

	s, err := Open(path, WithName("cats"))
	if err != nil {
		t.Fatal(err)
	}

	var rec observable.Recorder[record.Record]
	s.Changes().Subscribe(&rec)
	rec.Reset()

	writeFile(t, path, "- id: a\n- id: c\n  n: 1\n")
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload error = %v", err)
	}

	want := []change.Kind{change.KindBeginBatch, change.KindDeletes, change.KindUpdates, change.KindEndBatch}
	if diff := cmp.Diff(want, rec.Kinds()); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, rec.Events()[1].Indices); diff != "" {
		t.Errorf("delete indices mismatch (-want +got):\n%s", diff)
	}
}

func TestReload_FailureKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.yaml")
	writeFile(t, path, "- id: a\n")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	var rec observable.Recorder[record.Record]
	s.Changes().Subscribe(&rec)
	rec.Reset()

	writeFile(t, path, "- id: [\n")
	if err := s.Reload(); err == nil {
		t.Fatal("expected reload error")
	}

	if diff := cmp.Diff([]string{"a"}, ids(s.Items())); diff != "" {
		t.Errorf("snapshot changed (-want +got):\n%s", diff)
	}
	if len(rec.Events()) != 0 {
		t.Errorf("expected no events, got %v", rec.Events())
	}
	stats := s.Stats()
	if stats.Failures != 1 || stats.LastError == nil {
		t.Errorf("Stats() = %+v", stats)
	}
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case _, ok := <-ch:
		if !ok {
			t.Fatal("watch channel closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}

func TestWatch_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cats.yaml")
	writeFile(t, path, "- id: a\n")

	s, err := Open(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	// Unrelated files in the directory do not count.
	writeFile(t, filepath.Join(dir, "other.yaml"), "- id: z\n")
	writeFile(t, path, "- id: a\n- id: b\n")

	waitSignal(t, ch)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids(s.Items())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestWatch_FollowsRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cats.yaml")
	writeFile(t, path, "- id: a\n")

	s, err := Open(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	tmp := filepath.Join(dir, "cats.yaml.tmp")
	writeFile(t, tmp, "- id: c\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	waitSignal(t, ch)
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"c"}, ids(s.Items())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestWatch_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.yaml")
	writeFile(t, path, "- id: a\n")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Watch(ctx); !errors.Is(err, ErrWatching) {
		t.Errorf("second Watch error = %v, want ErrWatching", err)
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// A pending signal may drain first; the close must follow.
			<-ch
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
