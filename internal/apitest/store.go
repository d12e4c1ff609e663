package apitest

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"productdash/internal/platform/models"
)

var ErrDuplicateSKU = errors.New("sku already exists")

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sku TEXT NOT NULL,
	sku_normalized TEXT NOT NULL UNIQUE,
	name TEXT,
	description TEXT,
	active BOOLEAN NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS webhooks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT NOT NULL,
	event TEXT NOT NULL,
	enabled BOOLEAN NOT NULL DEFAULT 1
);
`

// OpenDB opens a private in-memory sqlite database. A single connection keeps
// every query on the same memory database.
func OpenDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type ProductFilter struct {
	SKU    string
	Name   string
	Active *bool
}

func (s *Store) ListProducts(skip, limit int, f ProductFilter) ([]models.Product, error) {
	query := `SELECT id, sku, name, description, active FROM products WHERE 1=1`
	var args []interface{}

	if f.SKU != "" {
		query += ` AND sku_normalized = ?`
		args = append(args, strings.ToLower(f.SKU))
	}
	if f.Name != "" {
		query += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Active != nil {
		query += ` AND active = ?`
		args = append(args, *f.Active)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(id int64) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT id, sku, name, description, active FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *Store) CreateProduct(in models.ProductInput) (*models.Product, error) {
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM products WHERE sku_normalized = ?)`, strings.ToLower(in.SKU)).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSKU
	}

	res, err := s.db.Exec(`INSERT INTO products (sku, sku_normalized, name, description, active) VALUES (?, ?, ?, ?, ?)`,
		in.SKU, strings.ToLower(in.SKU), in.Name, in.Description, in.Active)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Product{ID: id, SKU: in.SKU, Name: in.Name, Description: in.Description, Active: in.Active}, nil
}

// UpdateProduct returns nil when the product does not exist.
func (s *Store) UpdateProduct(id int64, upd models.ProductUpdate) (*models.Product, error) {
	res, err := s.db.Exec(`UPDATE products SET name = ?, description = ?, active = ? WHERE id = ?`,
		upd.Name, upd.Description, upd.Active, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetProduct(id)
}

func (s *Store) DeleteProduct(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) DeleteAllProducts() error {
	_, err := s.db.Exec(`DELETE FROM products`)
	return err
}

// UpsertProducts inserts rows keyed by normalized SKU, overwriting existing ones.
func (s *Store) UpsertProducts(rows []models.ProductInput) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO products (sku, sku_normalized, name, description, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (sku_normalized) DO UPDATE SET
			sku = excluded.sku,
			name = excluded.name,
			description = excluded.description,
			active = excluded.active
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.SKU, strings.ToLower(r.SKU), r.Name, r.Description, r.Active); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListWebhooks() ([]models.Webhook, error) {
	rows, err := s.db.Query(`SELECT id, url, event, enabled FROM webhooks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hooks := []models.Webhook{}
	for rows.Next() {
		var w models.Webhook
		if err := rows.Scan(&w.ID, &w.URL, &w.Event, &w.Enabled); err != nil {
			return nil, err
		}
		hooks = append(hooks, w)
	}
	return hooks, rows.Err()
}

func (s *Store) GetWebhook(id int64) (*models.Webhook, error) {
	var w models.Webhook
	err := s.db.QueryRow(`SELECT id, url, event, enabled FROM webhooks WHERE id = ?`, id).Scan(&w.ID, &w.URL, &w.Event, &w.Enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) CreateWebhook(in models.WebhookInput) (*models.Webhook, error) {
	res, err := s.db.Exec(`INSERT INTO webhooks (url, event, enabled) VALUES (?, ?, ?)`, in.URL, in.Event, in.Enabled)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Webhook{ID: id, URL: in.URL, Event: in.Event, Enabled: in.Enabled}, nil
}

// UpdateWebhook returns nil when the webhook does not exist.
func (s *Store) UpdateWebhook(id int64, in models.WebhookInput) (*models.Webhook, error) {
	res, err := s.db.Exec(`UPDATE webhooks SET url = ?, event = ?, enabled = ? WHERE id = ?`, in.URL, in.Event, in.Enabled, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &models.Webhook{ID: id, URL: in.URL, Event: in.Event, Enabled: in.Enabled}, nil
}

func (s *Store) DeleteWebhook(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM webhooks WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanProduct(s interface {
	Scan(dest ...interface{}) error
}) (*models.Product, error) {
	var p models.Product
	var name, description sql.NullString

	if err := s.Scan(&p.ID, &p.SKU, &name, &description, &p.Active); err != nil {
		return nil, err
	}
	if name.Valid {
		p.Name = name.String
	}
	if description.Valid {
		p.Description = description.String
	}
	return &p, nil
}
