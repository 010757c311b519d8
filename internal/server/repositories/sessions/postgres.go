package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userapp/internal/common"
	"github.com/dmitrijs2005/userapp/internal/dbx"
	"github.com/dmitrijs2005/userapp/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX, so it runs the
// same against *sql.DB and *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	query := `
		INSERT INTO sessions (username, apikey)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, query, s.UserName, s.APIKey).Scan(&s.ID, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) FindByUserName(ctx context.Context, userName string) (*models.Session, error) {
	query := `
		SELECT id, username, apikey, created_at
		FROM sessions
		WHERE username = $1
		ORDER BY id
		LIMIT 1
	`
	s := &models.Session{}
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&s.ID, &s.UserName, &s.APIKey, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM sessions
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Session, error) {
	query := `
		SELECT id, username, apikey, created_at
		FROM sessions
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Session, 0)
	for rows.Next() {
		s := &models.Session{}
		if err := rows.Scan(&s.ID, &s.UserName, &s.APIKey, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
