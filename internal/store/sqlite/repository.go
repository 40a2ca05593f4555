// Package sqlite is an embedded document store for the catalog and orders,
// used when no MongoDB is available (STORE_DRIVER=sqlite).
//
// Each document is kept as JSON text in the same shape MongoDB stores it.
// WAL mode is enabled on Open so listing requests never block order inserts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	catalog "github.com/jcmexdev/katana-shop/internal/catalog/domain"
	"github.com/jcmexdev/katana-shop/internal/order/domain"

	// Pure-Go driver, no CGO needed in Alpine images.
	_ "modernc.org/sqlite"
)

// schema is applied on every Open; statements are idempotent.
// seq preserves insertion order, which is the natural listing order.
const schema = `
CREATE TABLE IF NOT EXISTS katana (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    id          TEXT    NOT NULL UNIQUE,
    document    TEXT    NOT NULL,
    created_at  TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS "order" (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    id          TEXT    NOT NULL UNIQUE,
    document    TEXT    NOT NULL,
    created_at  TEXT    NOT NULL
);
`

// DB wraps the database handle shared by both repositories.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and applies the schema.
//
//	db, err := sqlite.Open("./data/katana.db")
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &DB{db: db, path: path}, nil
}

// Close releases the database. Call it with defer in main().
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Name() string {
	return filepath.Base(d.path)
}

func (d *DB) Collections(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (d *DB) Catalog() *CatalogRepository { return &CatalogRepository{db: d.db} }

func (d *DB) Orders() *OrderRepository { return &OrderRepository{db: d.db} }

type CatalogRepository struct {
	db *sql.DB
}

// List returns katanas by insertion order. A limit of 0 is unlimited.
func (r *CatalogRepository) List(ctx context.Context, limit int) ([]catalog.Katana, error) {
	q := `SELECT id, document FROM katana ORDER BY seq`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list katanas: %w", err)
	}
	defer rows.Close()

	katanas := make([]catalog.Katana, 0)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("sqlite: scan katana: %w", err)
		}
		var k catalog.Katana
		if err := json.Unmarshal([]byte(doc), &k); err != nil {
			return nil, fmt.Errorf("sqlite: decode katana %q: %w", id, err)
		}
		k.ID = id
		if k.Images == nil {
			k.Images = []string{}
		}
		katanas = append(katanas, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate katanas: %w", err)
	}
	return katanas, nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM katana`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count katanas: %w", err)
	}
	return n, nil
}

func (r *CatalogRepository) Insert(ctx context.Context, k catalog.Katana) (string, error) {
	k.ID = uuid.NewString()
	if err := insertDocument(ctx, r.db, "katana", k.ID, k); err != nil {
		return "", fmt.Errorf("sqlite: insert katana %q: %w", k.Name, err)
	}
	return k.ID, nil
}

type OrderRepository struct {
	db *sql.DB
}

func (r *OrderRepository) Insert(ctx context.Context, o domain.Order) (string, error) {
	o.ID = uuid.NewString()
	if err := insertDocument(ctx, r.db, `"order"`, o.ID, o); err != nil {
		return "", fmt.Errorf("sqlite: insert order: %w", err)
	}
	return o.ID, nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM "order" WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}

	var o domain.Order
	if err := json.Unmarshal([]byte(doc), &o); err != nil {
		return domain.Order{}, fmt.Errorf("sqlite: decode order %q: %w", id, err)
	}
	o.ID = id
	return o, nil
}

// insertDocument stores v as JSON under id. table is a trusted constant.
func insertDocument(ctx context.Context, db *sql.DB, table, id string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, document, created_at) VALUES (?, ?, ?)`,
		id, string(doc), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
