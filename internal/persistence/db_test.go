package persistence

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/gravitas-games/antcolony/internal/colony"
	"github.com/gravitas-games/antcolony/pkg/hex"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "colony.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadColony(t *testing.T) {
	db := openTestDB(t)

	w := colony.NewWorld(colony.DefaultTuning())
	w.Spawn()
	worker, _ := w.Colony.Get(2)
	worker.Selected = true
	if err := w.Order(hex.Point{X: 200, Y: 40}, []colony.Handle{2}); err != nil {
		t.Fatalf("order: %v", err)
	}
	w.Tick(0.05, nil)

	if err := db.SaveColony("p1", w); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving twice replaces rather than duplicates.
	if err := db.SaveColony("p1", w); err != nil {
		t.Fatalf("second save: %v", err)
	}

	out := colony.NewWorld(colony.DefaultTuning())
	if err := db.LoadColony("p1", out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Colony.Len() != w.Colony.Len() {
		t.Fatalf("expected %d units, got %d", w.Colony.Len(), out.Colony.Len())
	}
	got, _ := out.Colony.Get(2)
	if got.Position != worker.Position || !got.Selected || got.Orientation != worker.Orientation {
		t.Fatalf("unit mismatch: %+v vs %+v", got, worker)
	}
	if got.Target == nil || *got.Target != *worker.Target {
		t.Fatalf("target mismatch: %v vs %v", got.Target, worker.Target)
	}
	if len(got.Waypoints) != len(worker.Waypoints) {
		t.Fatalf("expected %d waypoints, got %d", len(worker.Waypoints), len(got.Waypoints))
	}
	queen, _ := out.Colony.Get(0)
	if queen.Kind != colony.KindQueen || queen.Target != nil || queen.Waypoints != nil {
		t.Fatalf("queen restored as %+v", queen)
	}
}

func TestLoadMissingColony(t *testing.T) {
	db := openTestDB(t)
	w := colony.NewWorld(colony.DefaultTuning())
	if err := db.LoadColony("nobody", w); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteColony(t *testing.T) {
	db := openTestDB(t)
	w := colony.NewWorld(colony.DefaultTuning())
	w.Spawn()
	if err := db.SaveColony("p2", w); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.DeleteColony("p2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.LoadColony("p2", colony.NewWorld(colony.DefaultTuning())); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSaveColonyEncodeError(t *testing.T) {
	db := openTestDB(t)
	w := colony.NewWorld(colony.DefaultTuning())
	w.Spawn()
	if err := db.SaveColony("p3", w); err != nil {
		t.Fatalf("save: %v", err)
	}

	worker, _ := w.Colony.Get(1)
	worker.Target = &hex.Point{X: math.NaN()}
	if err := db.SaveColony("p3", w); err == nil {
		t.Fatalf("expected encode error for a NaN target")
	}

	// The failed save rolls back and leaves the earlier one intact.
	out := colony.NewWorld(colony.DefaultTuning())
	if err := db.LoadColony("p3", out); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, _ := out.Colony.Get(1)
	if out.Colony.Len() != w.Colony.Len() || got.Target != nil {
		t.Fatalf("unexpected colony after failed save: %d units, target %v", out.Colony.Len(), got.Target)
	}
}
