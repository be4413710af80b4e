package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"Caldera/internal/catalog"
)

// PostgresCatalog keeps equipment as JSONB documents and normalizes them on read,
// so rows written by other tools in their own field names still load.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) Records(ctx context.Context, kind catalog.Kind) ([]catalog.Record, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT doc FROM equipment WHERE kind=$1 ORDER BY position", string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("equipment document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	records, _, err := catalog.Ingest(kind, docs)
	return records, err
}

func (c *PostgresCatalog) ReplaceCatalog(ctx context.Context, kind catalog.Kind, records []catalog.Record) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM equipment WHERE kind=$1", string(kind)); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO equipment (kind, position, doc) VALUES ($1, $2, $3)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, string(kind), i, doc); err != nil {
			return err
		}
	}
	return tx.Commit()
}
