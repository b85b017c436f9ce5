// Package persistence provides SQLite-based colony storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gravitas-games/antcolony/internal/colony"
	"github.com/gravitas-games/antcolony/pkg/hex"
)

// ErrNotFound is returned when no colony is stored for a player.
var ErrNotFound = errors.New("colony not found")

// DB wraps a SQLite connection for colony persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS colonies (
		player_id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		saved_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS units (
		player_id TEXT NOT NULL,
		handle INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		pos_x REAL NOT NULL,
		pos_y REAL NOT NULL,
		orientation REAL NOT NULL,
		selected INTEGER NOT NULL,
		target_json TEXT,
		waypoints_json TEXT NOT NULL,
		PRIMARY KEY (player_id, handle)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type unitRow struct {
	Handle        int            `db:"handle"`
	Kind          int            `db:"kind"`
	PosX          float64        `db:"pos_x"`
	PosY          float64        `db:"pos_y"`
	Orientation   float64        `db:"orientation"`
	Selected      bool           `db:"selected"`
	TargetJSON    sql.NullString `db:"target_json"`
	WaypointsJSON string         `db:"waypoints_json"`
}

// SaveColony writes the units of a player's colony (full replace).
func (db *DB) SaveColony(playerID string, w *colony.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM units WHERE player_id = ?", playerID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO units
		(player_id, handle, kind, pos_x, pos_y, orientation, selected, target_json, waypoints_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range w.Colony.Units() {
		var target sql.NullString
		if u.Target != nil {
			data, err := json.Marshal(u.Target)
			if err != nil {
				return fmt.Errorf("encode target of unit %d: %w", u.Handle, err)
			}
			target = sql.NullString{String: string(data), Valid: true}
		}
		waypoints := u.Waypoints
		if waypoints == nil {
			waypoints = []hex.Point{}
		}
		wpJSON, err := json.Marshal(waypoints)
		if err != nil {
			return fmt.Errorf("encode waypoints of unit %d: %w", u.Handle, err)
		}

		_, err = stmt.Exec(
			playerID, int(u.Handle), int(u.Kind),
			u.Position.X, u.Position.Y, u.Orientation, u.Selected,
			target, string(wpJSON),
		)
		if err != nil {
			return fmt.Errorf("insert unit %d: %w", u.Handle, err)
		}
	}

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO colonies (player_id, tick, saved_at) VALUES (?, ?, ?)",
		playerID, w.TickCount(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save colony meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Saved colony of %s (%d units)", playerID, w.Colony.Len())
	return nil
}

// LoadColony restores a player's units into w. It returns ErrNotFound when
// nothing was saved for the player.
func (db *DB) LoadColony(playerID string, w *colony.World) error {
	var exists int
	err := db.conn.Get(&exists, "SELECT COUNT(*) FROM colonies WHERE player_id = ?", playerID)
	if err != nil {
		return fmt.Errorf("lookup colony: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	var rows []unitRow
	err = db.conn.Select(&rows, `SELECT handle, kind, pos_x, pos_y, orientation, selected,
		target_json, waypoints_json FROM units WHERE player_id = ? ORDER BY handle`, playerID)
	if err != nil {
		return fmt.Errorf("select units: %w", err)
	}

	units := make([]colony.Unit, 0, len(rows))
	for _, r := range rows {
		u := colony.Unit{
			Handle:      colony.Handle(r.Handle),
			Kind:        colony.Kind(r.Kind),
			Position:    hex.Point{X: r.PosX, Y: r.PosY},
			Orientation: r.Orientation,
			Selected:    r.Selected,
		}
		if r.TargetJSON.Valid {
			var t hex.Point
			if err := json.Unmarshal([]byte(r.TargetJSON.String), &t); err != nil {
				return fmt.Errorf("decode target of unit %d: %w", r.Handle, err)
			}
			u.Target = &t
		}
		if err := json.Unmarshal([]byte(r.WaypointsJSON), &u.Waypoints); err != nil {
			return fmt.Errorf("decode waypoints of unit %d: %w", r.Handle, err)
		}
		if len(u.Waypoints) == 0 {
			u.Waypoints = nil
		}
		units = append(units, u)
	}

	w.Colony.Restore(units)
	log.Printf("Loaded colony of %s (%d units)", playerID, len(units))
	return nil
}

// DeleteColony removes a player's stored colony.
func (db *DB) DeleteColony(playerID string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM units WHERE player_id = ?", playerID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM colonies WHERE player_id = ?", playerID); err != nil {
		return err
	}
	return tx.Commit()
}
