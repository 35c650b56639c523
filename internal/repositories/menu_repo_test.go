package repositories

import (
	"context"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MenuRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    MenuRepository
	context context.Context
}

func (suite *MenuRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewMenuRepo(mock)
	suite.context = context.Background()
}

func (suite *MenuRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestMenuRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MenuRepoTestSuite))
}

func (suite *MenuRepoTestSuite) TestList() {
	rows := pgxmock.NewRows([]string{"id", "name", "category", "price", "image"}).
		AddRow(1, "Sushi Moriawase", "Sushi", 12.5, "/images/sushi_moriawase.jpg").
		AddRow(2, "Sushi de Atún", "Sushi", 11.2, "/images/sushi_atun.jpg")

	suite.mock.ExpectQuery(`SELECT id, name, category, price, image\s+FROM carta\s+ORDER BY id`).
		WillReturnRows(rows)

	products, err := suite.repo.List(suite.context)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 2)
	assert.Equal(suite.T(), "Sushi Moriawase", products[0].Name)
	assert.Equal(suite.T(), 11.2, products[1].Price)
}

func (suite *MenuRepoTestSuite) TestListByCategory() {
	rows := pgxmock.NewRows([]string{"id", "name", "category", "price", "image"}).
		AddRow(4, "Gyozas", "Entrantes", 6.5, "/images/gyozas.jpg")

	suite.mock.ExpectQuery(`SELECT id, name, category, price, image\s+FROM carta\s+WHERE category = \$1\s+ORDER BY id`).
		WithArgs("Entrantes").
		WillReturnRows(rows)

	products, err := suite.repo.ListByCategory(suite.context, "Entrantes")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), "Gyozas", products[0].Name)
}

func (suite *MenuRepoTestSuite) TestListByCategory_NoMatches() {
	rows := pgxmock.NewRows([]string{"id", "name", "category", "price", "image"})

	suite.mock.ExpectQuery(`SELECT id, name, category, price, image\s+FROM carta\s+WHERE category = \$1\s+ORDER BY id`).
		WithArgs("Desconocida").
		WillReturnRows(rows)

	products, err := suite.repo.ListByCategory(suite.context, "Desconocida")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), products)
}

func (suite *MenuRepoTestSuite) TestGetByID() {
	rows := pgxmock.NewRows([]string{"id", "name", "category", "price", "image"}).
		AddRow(1, "Sushi Moriawase", "Sushi", 12.5, "/images/sushi_moriawase.jpg")

	suite.mock.ExpectQuery(`SELECT id, name, category, price, image\s+FROM carta\s+WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(rows)

	product, err := suite.repo.GetByID(suite.context, 1)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, product.ID)
	assert.Equal(suite.T(), 12.5, product.Price)
}

func (suite *MenuRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, category, price, image\s+FROM carta\s+WHERE id = \$1`).
		WithArgs(99).
		WillReturnError(pgx.ErrNoRows)

	product, err := suite.repo.GetByID(suite.context, 99)
	assert.Nil(suite.T(), product)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}
