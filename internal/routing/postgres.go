// internal/routing/postgres.go
package routing

import (
	"context"
	"database/sql"
	"fmt"

	"freeflow-backend/internal/models"
)

// PostgresGateway implements Gateway against the businesses and
// business_categories tables.
type PostgresGateway struct {
	db *sql.DB
}

func NewPostgresGateway(db *sql.DB) *PostgresGateway {
	return &PostgresGateway{db: db}
}

const businessColumns = `id, name, category_id, is_active, is_verified, latitude, longitude, city, email, phone`

// ListActiveBusinesses applies the eligibility filter server-side and orders
// by id so the result is deterministic across calls.
func (g *PostgresGateway) ListActiveBusinesses(ctx context.Context, categoryID string) ([]models.Business, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE is_active = TRUE AND is_verified = TRUE`
	args := []interface{}{}

	if categoryID != "" {
		query += ` AND category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY id`

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		var b models.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.CategoryID, &b.IsActive, &b.IsVerified, &b.Latitude, &b.Longitude, &b.City, &b.Email, &b.Phone); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}

	return businesses, nil
}

func (g *PostgresGateway) ListCategories(ctx context.Context) ([]models.BusinessCategory, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id, name, display_name, description, icon_name
		FROM business_categories
		WHERE is_active = TRUE
		ORDER BY display_name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.BusinessCategory
	for rows.Next() {
		var c models.BusinessCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayName, &c.Description, &c.IconName); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

func (g *PostgresGateway) GetCategory(ctx context.Context, categoryID string) (*models.BusinessCategory, error) {
	row := g.db.QueryRowContext(ctx, `
		SELECT id, name, display_name, description, icon_name
		FROM business_categories
		WHERE id = $1`, categoryID)

	var c models.BusinessCategory
	err := row.Scan(&c.ID, &c.Name, &c.DisplayName, &c.Description, &c.IconName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query category: %w", err)
	}

	return &c, nil
}

func (g *PostgresGateway) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	row := g.db.QueryRowContext(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE id = $1`, businessID)

	var b models.Business
	err := row.Scan(&b.ID, &b.Name, &b.CategoryID, &b.IsActive, &b.IsVerified, &b.Latitude, &b.Longitude, &b.City, &b.Email, &b.Phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query business: %w", err)
	}

	return &b, nil
}
