package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// collection stores JSON documents in a table shaped (id, data jsonb,
// created_at, updated_at).
type collection[T any] struct {
	pool     *pgxpool.Pool
	table    string
	notFound error
}

func (c collection[T]) insert(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.table, err)
	}
	_, err = c.pool.Exec(ctx, `INSERT INTO `+c.table+` (id, data) VALUES ($1, $2::jsonb)`, id, string(raw))
	return err
}

func (c collection[T]) get(ctx context.Context, id string) (T, error) {
	var doc T
	var raw []byte
	err := c.pool.QueryRow(ctx, `SELECT data FROM `+c.table+` WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return doc, c.notFound
	}
	if err != nil {
		return doc, fmt.Errorf("load %s: %w", c.table, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("unmarshal %s: %w", c.table, err)
	}
	return doc, nil
}

// replace overwrites the document. Extra conditions narrow the match; when
// nothing matches it reports ok=false.
func (c collection[T]) replace(ctx context.Context, id string, doc T, cond string) (bool, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("marshal %s: %w", c.table, err)
	}
	query := `UPDATE ` + c.table + ` SET data=$2::jsonb, updated_at=now() WHERE id=$1`
	if cond != "" {
		query += ` AND ` + cond
	}
	tag, err := c.pool.Exec(ctx, query, id, string(raw))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM `+c.table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return c.notFound
	}
	return nil
}

func (c collection[T]) find(ctx context.Context, where, orderBy string, args ...interface{}) ([]T, error) {
	query := `SELECT data FROM ` + c.table
	if where != "" {
		query += ` WHERE ` + where
	}
	if orderBy != "" {
		query += ` ORDER BY ` + orderBy
	}
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.table, err)
	}
	defer rows.Close()

	docs := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", c.table, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
