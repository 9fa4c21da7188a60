package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"hornetflow/internal/logging"
	"hornetflow/internal/manifest"
	"hornetflow/internal/plugin"
	"hornetflow/internal/services"
	"hornetflow/internal/testsupport"
)

type fakeBackend struct {
	name      string
	setupErr  error
	loadErr   map[string]error
	rejects   map[string]bool
	loaded    []string
	teardowns int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Setup(context.Context, plugin.Environment) error { return f.setupErr }

func (f *fakeBackend) LoadComponent(_ context.Context, c manifest.Component, files []string) (bool, error) {
	if err := f.loadErr[c.ID]; err != nil {
		return false, err
	}
	if f.rejects[c.ID] {
		return false, nil
	}
	f.loaded = append(f.loaded, c.ID)
	return true, nil
}

func (f *fakeBackend) Teardown() error {
	f.teardowns++
	return nil
}

func registerFake(t *testing.T, b *fakeBackend) {
	t.Helper()
	plugin.Register(b.name, func() plugin.Backend { return b })
}

func writeRepo(t *testing.T) (manifestPath, repoRoot string) {
	t.Helper()
	repoRoot = t.TempDir()
	for _, rel := range []string{"cad/chassis.sldasm", "cad/frame.sldprt", "cad/axle.sldprt"} {
		testsupport.WriteFile(t, filepath.Join(repoRoot, rel), []byte("solid"))
	}
	doc := map[string]any{
		"$schema": "https://example.com/schema.json",
		"components": []map[string]any{
			{
				"id":   "chassis",
				"type": "assembly",
				"files": []map[string]any{
					{"path": "cad/chassis.sldasm", "type": "solidworks_assembly"},
				},
				"components": []map[string]any{
					{
						"id":   "frame",
						"type": "part",
						"files": []map[string]any{
							{"path": "cad/frame.sldprt", "type": "solidworks_part"},
						},
					},
					{
						"id":   "axle",
						"type": "part",
						"files": []map[string]any{
							{"path": "cad/axle.sldprt", "type": "solidworks_part"},
						},
					},
				},
			},
		},
	}
	manifestPath = filepath.Join(repoRoot, "manifest.json")
	testsupport.WriteJSON(t, manifestPath, doc)
	return manifestPath, repoRoot
}

func TestProcessAllComponents(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	backend := &fakeBackend{name: "test-all"}
	registerFake(t, backend)

	p := New(logging.NewNop())
	outcome, err := p.Process(context.Background(), manifestPath, repoRoot, Options{Plugin: "test-all"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome.Total != 3 || outcome.Succeeded != 3 {
		t.Fatalf("outcome = %d/%d, want 3/3", outcome.Succeeded, outcome.Total)
	}
	if backend.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", backend.teardowns)
	}
	want := []string{"chassis", "frame", "axle"}
	for i, id := range want {
		if backend.loaded[i] != id {
			t.Fatalf("loaded = %v, want %v", backend.loaded, want)
		}
	}
}

func TestProcessRecordsErrorsAndContinues(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	backend := &fakeBackend{
		name:    "test-record",
		loadErr: map[string]error{"frame": errors.New("bad geometry")},
	}
	registerFake(t, backend)

	p := New(logging.NewNop())
	outcome, err := p.Process(context.Background(), manifestPath, repoRoot, Options{Plugin: "test-record"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome.Total != 3 || outcome.Succeeded != 2 {
		t.Fatalf("outcome = %d/%d, want 2/3", outcome.Succeeded, outcome.Total)
	}
	if len(outcome.Recorded) != 1 {
		t.Fatalf("recorded = %d errors, want 1", len(outcome.Recorded))
	}
	if !errors.Is(outcome.Recorded[0], services.ErrProcessing) {
		t.Fatalf("recorded error = %v, want ErrProcessing", outcome.Recorded[0])
	}
}

func TestProcessFailFastAborts(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	backend := &fakeBackend{
		name:    "test-failfast",
		rejects: map[string]bool{"chassis": true},
	}
	registerFake(t, backend)

	p := New(logging.NewNop())
	outcome, err := p.Process(context.Background(), manifestPath, repoRoot, Options{Plugin: "test-failfast", FailFast: true})
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("err = %v, want ErrProcessing", err)
	}
	if len(backend.loaded) != 0 {
		t.Fatalf("loaded = %v, want none after abort", backend.loaded)
	}
	if outcome.Total != 1 {
		t.Fatalf("total = %d, want 1", outcome.Total)
	}
	if backend.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1 after abort", backend.teardowns)
	}
}

func TestProcessMissingFile(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	if err := os.Remove(filepath.Join(repoRoot, "cad", "axle.sldprt")); err != nil {
		t.Fatal(err)
	}
	backend := &fakeBackend{name: "test-missing"}
	registerFake(t, backend)

	p := New(logging.NewNop())
	outcome, err := p.Process(context.Background(), manifestPath, repoRoot, Options{Plugin: "test-missing"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(outcome.Recorded) != 1 || !errors.Is(outcome.Recorded[0], services.ErrNotFound) {
		t.Fatalf("recorded = %v, want one ErrNotFound", outcome.Recorded)
	}
	// The component still reaches the backend minus the missing file.
	if outcome.Succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", outcome.Succeeded)
	}
}

func TestProcessMissingFileFailFast(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	if err := os.Remove(filepath.Join(repoRoot, "cad", "frame.sldprt")); err != nil {
		t.Fatal(err)
	}
	backend := &fakeBackend{name: "test-missing-ff"}
	registerFake(t, backend)

	p := New(logging.NewNop())
	_, err := p.Process(context.Background(), manifestPath, repoRoot, Options{Plugin: "test-missing-ff", FailFast: true})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if backend.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", backend.teardowns)
	}
}

func TestProcessFilterExcludesFromTotal(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	backend := &fakeBackend{name: "test-filter"}
	registerFake(t, backend)

	p := New(logging.NewNop())
	outcome, err := p.Process(context.Background(), manifestPath, repoRoot, Options{
		Plugin: "test-filter",
		Filter: manifest.Filter{Kind: manifest.KindPart},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome.Total != 2 || outcome.Succeeded != 2 {
		t.Fatalf("outcome = %d/%d, want 2/2", outcome.Succeeded, outcome.Total)
	}
}

func TestProcessSetupFailureStillTearsDown(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	backend := &fakeBackend{name: "test-setup", setupErr: fmt.Errorf("no workspace")}
	registerFake(t, backend)

	p := New(logging.NewNop())
	_, err := p.Process(context.Background(), manifestPath, repoRoot, Options{Plugin: "test-setup"})
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("err = %v, want ErrProcessing", err)
	}
	if backend.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", backend.teardowns)
	}
}

func TestProcessUnknownPlugin(t *testing.T) {
	manifestPath, repoRoot := writeRepo(t)
	p := New(logging.NewNop())
	_, err := p.Process(context.Background(), manifestPath, repoRoot, Options{Plugin: "no-such"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
