package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteDocumentStore struct {
	db    *sql.DB
	newID func() (string, error)
	now   func() time.Time
}

func NewSQLiteDocumentStore(db *sql.DB) (*SQLiteDocumentStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteDocumentStore{db: db, newID: newDocumentID, now: time.Now}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteDocumentStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteDocumentStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteDocumentStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteDocumentStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, body FROM documents
		WHERE collection = ?
		ORDER BY seq ASC`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		var doc Document
		var body string
		if err := rows.Scan(&doc.ID, &body); err != nil {
			return nil, err
		}
		doc.Body = []byte(body)
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *SQLiteDocumentStore) Create(ctx context.Context, collection string, body []byte) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id, err := s.newID()
	if err != nil {
		return "", err
	}
	stamp := s.now().UTC().Format(sqliteTimeLayout)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		collection, id, string(body), stamp, stamp,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteDocumentStore) Replace(ctx context.Context, collection, id string, body []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET body = ?, updated_at = ?
		WHERE collection = ? AND id = ?`,
		string(body), s.now().UTC().Format(sqliteTimeLayout), collection, id,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLiteDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
