// internal/routing/postgres_test.go
package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*PostgresGateway, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresGateway(db), mock
}

func businessRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "category_id", "is_active", "is_verified", "latitude", "longitude", "city", "email", "phone",
	})
}

func TestPostgresGateway_ListActiveBusinesses_ByCategory(t *testing.T) {
	gateway, mock := setupMockDB(t)

	rows := businessRows().
		AddRow("biz-pizza-1", "Mario Pizza", "cat-pizzeria", true, true, 50.01, 19.0, "Katowice", "mario@pizza.pl", "+48500100200").
		AddRow("biz-pizza-2", "Luigi Pizza", "cat-pizzeria", true, true, 50.02, 19.1, "Katowice", "", "")

	mock.ExpectQuery(`SELECT .+ FROM businesses WHERE is_active = TRUE AND is_verified = TRUE AND category_id = \$1 ORDER BY id`).
		WithArgs("cat-pizzeria").
		WillReturnRows(rows)

	businesses, err := gateway.ListActiveBusinesses(context.Background(), "cat-pizzeria")

	require.NoError(t, err)
	require.Len(t, businesses, 2)
	assert.Equal(t, "biz-pizza-1", businesses[0].ID)
	assert.Equal(t, "Mario Pizza", businesses[0].Name)
	assert.True(t, businesses[0].Eligible())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGateway_ListActiveBusinesses_AllCategories(t *testing.T) {
	gateway, mock := setupMockDB(t)

	rows := businessRows().
		AddRow("biz-burger-1", "Burger Joint", "cat-fast-food", true, true, 50.02, 19.02, "Katowice", "", "")

	mock.ExpectQuery(`SELECT .+ FROM businesses WHERE is_active = TRUE AND is_verified = TRUE ORDER BY id`).
		WillReturnRows(rows)

	businesses, err := gateway.ListActiveBusinesses(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "biz-burger-1", businesses[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGateway_ListActiveBusinesses_Empty(t *testing.T) {
	gateway, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM businesses`).
		WithArgs("cat-sushi").
		WillReturnRows(businessRows())

	businesses, err := gateway.ListActiveBusinesses(context.Background(), "cat-sushi")

	require.NoError(t, err)
	assert.Empty(t, businesses)
}

func TestPostgresGateway_ListActiveBusinesses_QueryError(t *testing.T) {
	gateway, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM businesses`).
		WillReturnError(errors.New("connection refused"))

	businesses, err := gateway.ListActiveBusinesses(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, businesses)
}

func TestPostgresGateway_ListCategories(t *testing.T) {
	gateway, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "display_name", "description", "icon_name"}).
		AddRow("cat-pizzeria", "pizzeria", "Pizzeria", "Pizza places", "pizza").
		AddRow("cat-sushi", "sushi", "Sushi", "Sushi bars", "fish")

	mock.ExpectQuery(`SELECT .+ FROM business_categories WHERE is_active = TRUE ORDER BY display_name`).
		WillReturnRows(rows)

	categories, err := gateway.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "pizzeria", categories[0].Name)
	assert.Equal(t, "Sushi", categories[1].DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGateway_GetCategory_Found(t *testing.T) {
	gateway, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "display_name", "description", "icon_name"}).
		AddRow("cat-sushi", "sushi", "Sushi", "Sushi bars", "fish")

	mock.ExpectQuery(`SELECT .+ FROM business_categories WHERE id = \$1`).
		WithArgs("cat-sushi").
		WillReturnRows(rows)

	category, err := gateway.GetCategory(context.Background(), "cat-sushi")

	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, "sushi", category.Name)
}

func TestPostgresGateway_GetCategory_NotFound(t *testing.T) {
	gateway, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM business_categories WHERE id = \$1`).
		WithArgs("cat-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name", "description", "icon_name"}))

	category, err := gateway.GetCategory(context.Background(), "cat-missing")

	require.NoError(t, err)
	assert.Nil(t, category)
}

func TestPostgresGateway_GetBusiness(t *testing.T) {
	gateway, mock := setupMockDB(t)

	rows := businessRows().
		AddRow("biz-pizza-1", "Mario Pizza", "cat-pizzeria", true, true, 50.01, 19.0, "Katowice", "mario@pizza.pl", "+48500100200")

	mock.ExpectQuery(`SELECT .+ FROM businesses WHERE id = \$1`).
		WithArgs("biz-pizza-1").
		WillReturnRows(rows)

	business, err := gateway.GetBusiness(context.Background(), "biz-pizza-1")

	require.NoError(t, err)
	require.NotNil(t, business)
	assert.Equal(t, "mario@pizza.pl", business.Email)

	mock.ExpectQuery(`SELECT .+ FROM businesses WHERE id = \$1`).
		WithArgs("biz-missing").
		WillReturnRows(businessRows())

	missing, err := gateway.GetBusiness(context.Background(), "biz-missing")

	require.NoError(t, err)
	assert.Nil(t, missing)
}
