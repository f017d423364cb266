package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  mail TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL,
  curr_plan_id TEXT NOT NULL DEFAULT '00000000-0000-0000-0000-000000000000',
  type TEXT NOT NULL DEFAULT 'N/A',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedCustomer(t *testing.T, repo Repository, name, mail string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:         uuid.New(),
		Name:       name,
		Mail:       mail,
		Phone:      "405-555-0101",
		CurrPlanID: uuid.Nil,
		Type:       enums.CustomerTypeNone,
	}
	require.NoError(t, repo.Create(context.Background(), customer))
	return customer
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedCustomer(t, repo, "alice", "alice@example.com")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.Mail, found.Mail)
	assert.Equal(t, enums.CustomerTypeNone, found.Type)
	assert.False(t, found.HasPlan())

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	nilID, err := repo.FindByID(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, nilID)
}

func TestRepositoryFindByMail(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedCustomer(t, repo, "bob", "bob@example.com")

	found, err := repo.FindByMail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "bob", found.Name)

	missing, err := repo.FindByMail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryUpdatePlanAssociation(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedCustomer(t, repo, "carol", "carol@example.com")
	planID := uuid.New()

	require.NoError(t, repo.UpdatePlanAssociation(ctx, created.ID, planID, enums.CustomerTypePrepaid))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, planID, found.CurrPlanID)
	assert.Equal(t, enums.CustomerTypePrepaid, found.Type)
	assert.True(t, found.HasPlan())
}

func TestRepositoryListByType(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	a := seedCustomer(t, repo, "dave", "dave@example.com")
	seedCustomer(t, repo, "erin", "erin@example.com")
	require.NoError(t, repo.UpdatePlanAssociation(ctx, a.ID, uuid.New(), enums.CustomerTypePostpaid))

	rows, err := repo.ListByType(ctx, enums.CustomerTypePostpaid, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ID)
}
