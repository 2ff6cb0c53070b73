package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ProjectStore persists named plan snapshots in a SQLite database.
type ProjectStore struct {
	db *sql.DB
}

// ProjectInfo is one row of the project listing.
type ProjectInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

const projectSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);
`

// OpenProjectStore opens (creating if needed) the project database at path.
func OpenProjectStore(ctx context.Context, path string) (*ProjectStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening project store: %w", err)
	}
	if _, err := db.ExecContext(ctx, projectSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing project store: %w", err)
	}
	return &ProjectStore{db: db}, nil
}

// Close releases the database handle.
func (p *ProjectStore) Close() error { return p.db.Close() }

// Save stores a new project and returns its id.
func (p *ProjectStore) Save(ctx context.Context, name string, snap *Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encoding project %q: %w", name, err)
	}
	id := uuid.NewString()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, data, updated_at) VALUES (?, ?, ?, ?)`,
		id, name, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("saving project %q: %w", name, err)
	}
	return id, nil
}

// Update overwrites an existing project's snapshot.
func (p *ProjectStore) Update(ctx context.Context, id string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", id, err)
	}
	res, err := p.db.ExecContext(ctx,
		`UPDATE projects SET data = ?, updated_at = ? WHERE id = ?`,
		data, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project %s not found", id)
	}
	return nil
}

// Load reads a project's snapshot by id.
func (p *ProjectStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM projects WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding project %s: %w", id, err)
	}
	return &snap, nil
}

// List returns all projects, most recently updated first.
func (p *ProjectStore) List(ctx context.Context) ([]ProjectInfo, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, updated_at FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectInfo
	for rows.Next() {
		var info ProjectInfo
		var updated string
		if err := rows.Scan(&info.ID, &info.Name, &updated); err != nil {
			return nil, err
		}
		if ts, perr := time.Parse(time.RFC3339, updated); perr == nil {
			info.UpdatedAt = ts
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Rename changes a project's display name.
func (p *ProjectStore) Rename(ctx context.Context, id, name string) error {
	_, err := p.db.ExecContext(ctx, `UPDATE projects SET name = ? WHERE id = ?`, name, id)
	return err
}

// Delete removes a project. Unknown ids are a no-op.
func (p *ProjectStore) Delete(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}
