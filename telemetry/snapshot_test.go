package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/vivarium/components"
	"github.com/pthm-cable/vivarium/sim"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	env := sim.NewEnvironment()
	bug := sim.NewCreature("bug")
	bug.Location = components.Location{X: 150, Y: 250}
	bug.SetSize(12)
	bug.AddBehavior(sim.NewBehavior().
		AddCondition(sim.NewTagCondition("food")).
		AddAction(sim.NewApproachAction(3)))
	env.Add(bug)
	env.AddFactor(sim.NewFriction(0.5))

	state, err := sim.Capture(env)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	snapshot := &SnapshotFile{
		Seed:        42,
		WorldWidth:  1280,
		WorldHeight: 720,
		DT:          1.0 / 30,
		State:       state,
		Bookmark: &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        0,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_0_population_crash.json") {
		t.Errorf("unexpected filename: %s", path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file was not created")
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.WorldWidth != 1280 || loaded.DT != snapshot.DT {
		t.Errorf("metadata = %+v", loaded)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkPopulationCrash {
		t.Errorf("bookmark = %+v", loaded.Bookmark)
	}

	restored, err := loaded.State.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Len() != 1 || len(restored.Factors()) != 1 {
		t.Fatalf("restored %d objects, %d factors", restored.Len(), len(restored.Factors()))
	}
	got, ok := restored.Find(bug.ID)
	if !ok {
		t.Fatal("restored environment lost the creature id")
	}
	if got.Core().Location != bug.Location || got.Core().Size() != 12 {
		t.Errorf("restored creature = %+v", got.Core())
	}
}

func TestSaveSnapshotWithoutBookmark(t *testing.T) {
	state := &sim.Snapshot{Version: sim.SnapshotVersion, Tick: 900}
	path, err := SaveSnapshot(&SnapshotFile{State: state}, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_900.json" {
		t.Errorf("filename = %s, want snapshot_900.json", filepath.Base(path))
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("expected error for malformed file")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"seed": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(empty); err == nil {
		t.Error("expected error for snapshot without state")
	}
}
