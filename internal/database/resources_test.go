package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasilitas/internal/models"
)

func TestResourceCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	room := &models.Resource{Kind: models.KindRoom, Name: "Ruang Rapat Utama", Capacity: 20}
	require.NoError(t, db.CreateResource(ctx, room))
	assert.NotZero(t, room.ID)
	assert.Equal(t, models.ResourceAvailable, room.Status)

	found, err := db.GetResource(ctx, models.KindRoom, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ruang Rapat Utama", found.Name)
	assert.Equal(t, int64(20), found.Capacity)

	found.Capacity = 30
	found.Status = models.ResourceUnavailable
	require.NoError(t, db.UpdateResource(ctx, found))

	updated, err := db.GetResource(ctx, models.KindRoom, room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), updated.Capacity)
	assert.Equal(t, models.ResourceUnavailable, updated.Status)

	require.NoError(t, db.DeleteResource(ctx, models.KindRoom, room.ID))
	_, err = db.GetResource(ctx, models.KindRoom, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetResource_KindMismatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	asset := &models.Resource{Kind: models.KindAsset, Name: "Laptop", Type: "elektronik"}
	require.NoError(t, db.CreateResource(ctx, asset))

	_, err := db.GetResource(ctx, models.KindRoom, asset.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateResource_AssetConditionDefault(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	asset := &models.Resource{Kind: models.KindAsset, Name: "Proyektor", Type: "elektronik"}
	require.NoError(t, db.CreateResource(ctx, asset))
	assert.Equal(t, models.ConditionGood, asset.Condition)
}

func TestListResourcesByKind_Order(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.CreateResource(ctx, &models.Resource{Kind: models.KindVehicle, Name: "Toyota Avanza", Plate: "B 1234 KQ"}))
	require.NoError(t, db.CreateResource(ctx, &models.Resource{Kind: models.KindVehicle, Name: "Honda Vario", Plate: "B 5678 KQ"}))
	require.NoError(t, db.CreateResource(ctx, &models.Resource{Kind: models.KindRoom, Name: "Aula"}))

	vehicles, err := db.ListResourcesByKind(ctx, models.KindVehicle)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "Toyota Avanza", vehicles[0].Name)
	assert.Equal(t, "Honda Vario", vehicles[1].Name)
}

func TestSeedResources(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	seed := []models.Resource{
		{Kind: models.KindRoom, Name: "Ruang Rapat", Capacity: 10},
		{Kind: models.KindAsset, Name: "Laptop", Type: "elektronik"},
	}
	require.NoError(t, db.SeedResources(ctx, seed))

	rooms, err := db.ListResourcesByKind(ctx, models.KindRoom)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	// A second seed run must not duplicate anything.
	require.NoError(t, db.SeedResources(ctx, seed))
	rooms, err = db.ListResourcesByKind(ctx, models.KindRoom)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestSeedResources_OnlyEmptyKinds(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.CreateResource(ctx, &models.Resource{Kind: models.KindRoom, Name: "Existing Room"}))

	seed := []models.Resource{
		{Kind: models.KindRoom, Name: "Seed Room"},
		{Kind: models.KindVehicle, Name: "Seed Car", Plate: "B 1 A"},
	}
	require.NoError(t, db.SeedResources(ctx, seed))

	rooms, err := db.ListResourcesByKind(ctx, models.KindRoom)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Existing Room", rooms[0].Name)

	vehicles, err := db.ListResourcesByKind(ctx, models.KindVehicle)
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)
}
