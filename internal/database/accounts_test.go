package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasilitas/internal/models"
)

func TestAccountCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	account := &models.Account{Username: "0451", Password: "rahasia", Name: "Budi Santoso"}
	require.NoError(t, db.CreateAccount(ctx, account))
	assert.NotZero(t, account.ID)
	assert.Equal(t, models.RoleUser, account.Role)

	byID, err := db.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", byID.Name)

	byUsername, err := db.GetAccountByUsername(ctx, "0451")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byUsername.ID)

	byID.Name = "Budi S."
	require.NoError(t, db.UpdateAccount(ctx, byID))
	updated, err := db.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", updated.Name)

	require.NoError(t, db.DeleteAccount(ctx, account.ID))
	_, err = db.GetAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyAccount(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.CreateAccount(ctx, &models.Account{Username: "0451", Password: "rahasia", Name: "Budi"}))

	account, err := db.VerifyAccount(ctx, "0451", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "Budi", account.Name)

	// Surrounding whitespace is tolerated.
	_, err = db.VerifyAccount(ctx, " 0451 ", " rahasia ")
	assert.NoError(t, err)

	_, err = db.VerifyAccount(ctx, "0451", "salah")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.VerifyAccount(ctx, "9999", "rahasia")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.CreateAccount(ctx, &models.Account{Username: "0451", Password: "a", Name: "A"}))
	err := db.CreateAccount(ctx, &models.Account{Username: "0451", Password: "b", Name: "B"})
	assert.Error(t, err)
}

func TestReplaceAccounts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	admin := &models.Account{Username: "admin", Password: "admin", Name: "Admin", Role: models.RoleAdmin}
	old := &models.Account{Username: "0001", Password: "x", Name: "Old User"}
	require.NoError(t, db.CreateAccount(ctx, admin))
	require.NoError(t, db.CreateAccount(ctx, old))

	roster := []models.Account{
		{Username: "0100", Password: "pw1", Name: "Siti"},
		{Username: "0200", Password: "pw2", Name: "Andi"},
		{Username: "", Password: "pw3", Name: "Incomplete"}, // skipped
	}
	imported, err := db.ReplaceAccounts(ctx, roster)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	// Admin survives, old roster rows are gone.
	_, err = db.GetAccountByUsername(ctx, "admin")
	assert.NoError(t, err)
	_, err = db.GetAccountByUsername(ctx, "0001")
	assert.ErrorIs(t, err, ErrNotFound)

	// Leading zeros survive the import untouched.
	account, err := db.GetAccountByUsername(ctx, "0100")
	require.NoError(t, err)
	assert.Equal(t, "Siti", account.Name)
}
