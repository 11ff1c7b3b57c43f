package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindValid(t *testing.T) {
	assert.True(t, KindRoom.Valid())
	assert.True(t, KindAsset.Valid())
	assert.True(t, KindVehicle.Valid())
	assert.False(t, Kind("gedung").Valid())
	assert.False(t, Kind("").Valid())
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Ruangan", KindRoom.Label())
	assert.Equal(t, "Aset", KindAsset.Label())
	assert.Equal(t, "Kendaraan", KindVehicle.Label())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []Kind{KindRoom, KindAsset, KindVehicle}, Kinds())
}
