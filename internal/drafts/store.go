package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
)

var ErrDraftNotFound = errors.New("draft not found")

// Draft is a finished calculation persisted for later publishing. The core
// treats the item and profit breakdown as an opaque payload; the store does
// not interpret them beyond a few indexed columns.
type Draft struct {
	ID        string               `json:"id"`
	ItemID    string               `json:"item_id"`
	Title     string               `json:"title"`
	Item      *models.Item         `json:"item"`
	Profit    *models.ProfitResult `json:"profit"`
	CreatedAt time.Time            `json:"created_at"`
}

type Store struct {
	pool *pgxpool.Pool
}

type Config struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	MaxConnIdle time.Duration
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLife > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLife
	}
	if cfg.MaxConnIdle > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdle
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS drafts (
			id         UUID PRIMARY KEY,
			item_id    TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_drafts_item_id ON drafts(item_id);
		CREATE INDEX IF NOT EXISTS idx_drafts_created_at ON drafts(created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

type draftPayload struct {
	Item   *models.Item         `json:"item"`
	Profit *models.ProfitResult `json:"profit"`
}

// Save persists one item plus its profit breakdown and returns the new draft
// id.
func (s *Store) Save(ctx context.Context, item *models.Item, profit *models.ProfitResult) (string, error) {
	payload, err := json.Marshal(draftPayload{Item: item, Profit: profit})
	if err != nil {
		return "", fmt.Errorf("failed to marshal draft payload: %w", err)
	}

	id := uuid.New().String()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO drafts (id, item_id, title, payload)
		VALUES ($1, $2, $3, $4)
	`, id, item.ItemID, item.Title, payload)
	if err != nil {
		return "", fmt.Errorf("failed to insert draft: %w", err)
	}

	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, item_id, title, payload, created_at
		FROM drafts
		WHERE id = $1
	`, id)

	draft, err := scanDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]*Draft, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, item_id, title, payload, created_at
		FROM drafts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var result []*Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		result = append(result, draft)
	}
	return result, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func scanDraft(row pgx.Row) (*Draft, error) {
	var (
		draft   Draft
		payload []byte
	)
	if err := row.Scan(&draft.ID, &draft.ItemID, &draft.Title, &payload, &draft.CreatedAt); err != nil {
		return nil, err
	}

	var body draftPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft payload: %w", err)
	}
	draft.Item = body.Item
	draft.Profit = body.Profit

	return &draft, nil
}
