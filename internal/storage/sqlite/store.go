// Package sqlite persists simulation snapshots in a SQLite save file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/storage/snapshot"
)

// ErrNoSnapshot is returned by LoadLatest when the save file holds no
// snapshot yet.
var ErrNoSnapshot = errors.New("sqlite: no snapshot saved")

// Store persists snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite save store at path and applies embedded migrations.
//
// Precondition: path must be non-empty.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("save path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSnapshot inserts one snapshot and returns its generated ID.
//
// Postcondition: the snapshot round-trips through LoadSnapshot unchanged.
func (s *Store) SaveSnapshot(ctx context.Context, snap snapshot.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, created_at, turn, wounds) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().UnixMilli(), snap.Turn, snap.Wounds); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	for i, ev := range snap.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_events (snapshot_id, position, name, kind, enabled, armed, countdown)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, ev.Name, int(ev.Kind), ev.Enabled, ev.Armed, ev.Countdown); err != nil {
			return "", fmt.Errorf("insert event %s: %w", ev.Name, err)
		}
	}
	for _, a := range snap.Actors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_actors (snapshot_id, actor_id, room_id, strength, state,
			 staggered, hidden, fighting, weapon_id, wake_chance, death_handled)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, a.ID, a.RoomID, a.Strength, int(a.State),
			a.Staggered, a.Hidden, a.Fighting, a.WeaponID, a.WakeChance, a.DeathHandled); err != nil {
			return "", fmt.Errorf("insert actor %s: %w", a.ID, err)
		}
	}
	for _, f := range snap.Fuel {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_fuel (snapshot_id, object_id, fuel, lit, burned_out)
			 VALUES (?, ?, ?, ?, ?)`,
			id, f.ObjectID, f.Fuel, f.Lit, f.BurnedOut); err != nil {
			return "", fmt.Errorf("insert fuel %s: %w", f.ObjectID, err)
		}
	}
	for name, value := range snap.Globals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_globals (snapshot_id, name, value) VALUES (?, ?, ?)`,
			id, name, value); err != nil {
			return "", fmt.Errorf("insert global %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// LoadLatest loads the most recently saved snapshot.
//
// Postcondition: Returns ErrNoSnapshot when the store is empty.
func (s *Store) LoadLatest(ctx context.Context) (snapshot.Snapshot, error) {
	var id string
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1`)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot.Snapshot{}, ErrNoSnapshot
		}
		return snapshot.Snapshot{}, fmt.Errorf("select latest snapshot: %w", err)
	}
	return s.LoadSnapshot(ctx, id)
}

// LoadSnapshot loads the snapshot with the given ID.
func (s *Store) LoadSnapshot(ctx context.Context, id string) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT turn, wounds FROM snapshots WHERE id = ?`, id)
	if err := row.Scan(&snap.Turn, &snap.Wounds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot.Snapshot{}, ErrNoSnapshot
		}
		return snapshot.Snapshot{}, fmt.Errorf("select snapshot %s: %w", id, err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, kind, enabled, armed, countdown FROM snapshot_events
		 WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ev schedule.EventState
		var kind int
		if err := rows.Scan(&ev.Name, &kind, &ev.Enabled, &ev.Armed, &ev.Countdown); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = schedule.Kind(kind)
		snap.Events = append(snap.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("iterate events: %w", err)
	}

	actorRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT actor_id, room_id, strength, state, staggered, hidden, fighting,
		 weapon_id, wake_chance, death_handled FROM snapshot_actors
		 WHERE snapshot_id = ? ORDER BY actor_id`, id)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("select actors: %w", err)
	}
	defer actorRows.Close()
	for actorRows.Next() {
		var a snapshot.ActorState
		var state int
		if err := actorRows.Scan(&a.ID, &a.RoomID, &a.Strength, &state,
			&a.Staggered, &a.Hidden, &a.Fighting, &a.WeaponID, &a.WakeChance, &a.DeathHandled); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("scan actor: %w", err)
		}
		a.State = actor.State(state)
		snap.Actors = append(snap.Actors, a)
	}
	if err := actorRows.Err(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("iterate actors: %w", err)
	}

	fuelRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT object_id, fuel, lit, burned_out FROM snapshot_fuel
		 WHERE snapshot_id = ? ORDER BY object_id`, id)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("select fuel: %w", err)
	}
	defer fuelRows.Close()
	for fuelRows.Next() {
		var f snapshot.FuelState
		if err := fuelRows.Scan(&f.ObjectID, &f.Fuel, &f.Lit, &f.BurnedOut); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("scan fuel: %w", err)
		}
		snap.Fuel = append(snap.Fuel, f)
	}
	if err := fuelRows.Err(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("iterate fuel: %w", err)
	}

	globalRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, value FROM snapshot_globals WHERE snapshot_id = ?`, id)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("select globals: %w", err)
	}
	defer globalRows.Close()
	snap.Globals = make(map[string]int)
	for globalRows.Next() {
		var name string
		var value int
		if err := globalRows.Scan(&name, &value); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("scan global: %w", err)
		}
		snap.Globals[name] = value
	}
	if err := globalRows.Err(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("iterate globals: %w", err)
	}

	return snap, nil
}
