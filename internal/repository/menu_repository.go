package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"brewbean/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// GetAll retrieves the catalogue, optionally filtered by category.
func (r *menuRepository) GetAll(ctx context.Context, category string) ([]model.MenuItem, error) {
	query := `
		SELECT id, name, description, price, category, COALESCE(image_url, ''), customizations, created_at
		FROM menu_items
	`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("category", category).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	query := `
		SELECT id, name, description, price, category, COALESCE(image_url, ''), customizations, created_at
		FROM menu_items
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	item, err := scanMenuItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("menu_item_id", id).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return item, nil
}

// ValidateItemsExist checks that every provided menu item ID exists.
func (r *menuRepository) ValidateItemsExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `SELECT COUNT(DISTINCT id) FROM menu_items WHERE id = ANY($1)`

	// Deduplicate so the count comparison holds for carts with repeated items.
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	distinct := make([]string, 0, len(unique))
	for id := range unique {
		distinct = append(distinct, id)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, distinct).Scan(&count); err != nil {
		r.logger.Error().Err(err).Int("id_count", len(distinct)).Msg("failed to validate menu items")
		return fmt.Errorf("failed to validate menu items: %w", err)
	}

	if count != len(distinct) {
		r.logger.Debug().
			Int("expected", len(distinct)).
			Int("found", count).
			Msg("one or more menu items missing")
		return model.ErrMenuItemNotFound
	}

	return nil
}

// scanMenuItem scans a menu item row, decoding the customizations JSON
// column. Works for both Query rows and QueryRow results.
func scanMenuItem(row pgx.Row) (*model.MenuItem, error) {
	var item model.MenuItem
	var customizations []byte

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.ImageURL,
		&customizations,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(customizations) > 0 {
		if err := json.Unmarshal(customizations, &item.Customizations); err != nil {
			return nil, fmt.Errorf("failed to decode customizations: %w", err)
		}
	}

	return &item, nil
}
