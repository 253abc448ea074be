package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/charkeeper/internal/common"
	"github.com/dmitrijs2005/charkeeper/internal/dbx"
	"github.com/dmitrijs2005/charkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, collection, id string, doc json.RawMessage) error {

	query :=
		`INSERT INTO documents (user_id, collection, id, doc, updated_at)
         VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, collection, id)
		 DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, userID, collection, id, []byte(doc))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, collection, id string) (*models.Document, error) {
	query :=
		`SELECT doc, updated_at FROM documents
		 WHERE user_id = $1 AND collection = $2 AND id = $3
		 `

	d := &models.Document{UserID: userID, Collection: collection, ID: id}
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, userID, collection, id).Scan(&raw, &d.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	d.Doc = json.RawMessage(raw)
	return d, nil
}

func (r *PostgresRepository) ListByCollection(ctx context.Context, userID, collection string) ([]*models.Document, error) {
	query :=
		`SELECT id, doc, updated_at FROM documents
		 WHERE user_id = $1 AND collection = $2
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		d := &models.Document{UserID: userID, Collection: collection}
		var raw []byte
		if err := rows.Scan(&d.ID, &raw, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		d.Doc = json.RawMessage(raw)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, collection, id string) error {
	query :=
		`DELETE FROM documents
		 WHERE user_id = $1 AND collection = $2 AND id = $3
		 `

	_, err := r.db.ExecContext(ctx, query, userID, collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
