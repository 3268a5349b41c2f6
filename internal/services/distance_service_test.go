package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineMatrix(t *testing.T) {
	svc := NewHaversineMatrixService()

	points := []MatrixPoint{
		{ID: "sensoji", Lat: 35.7148, Lng: 139.7967},
		{ID: "shibuya", Lat: 35.6595, Lng: 139.7005},
	}

	mat, err := svc.ComputeDistances(context.Background(), points)
	require.NoError(t, err)

	assert.Zero(t, mat["sensoji"]["sensoji"].DistanceMeters)
	d := mat["sensoji"]["shibuya"].DistanceMeters
	assert.InDelta(t, 10600, d, 500)
	assert.Equal(t, d, mat["shibuya"]["sensoji"].DistanceMeters)
}

func TestHaversineMatrixEmptyInput(t *testing.T) {
	mat, err := NewHaversineMatrixService().ComputeDistances(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, mat)
}

func TestPairCacheExpiry(t *testing.T) {
	cache := NewInMemoryPairCache()
	k := pairKey{Mode: "walking", A: "a", B: "b"}

	_, ok := cache.Get(k)
	assert.False(t, ok)

	cache.Set(k, MatrixEdge{DistanceMeters: 1200}, time.Hour)
	got, ok := cache.Get(k)
	require.True(t, ok)
	assert.Equal(t, 1200, got.DistanceMeters)

	cache.Set(k, MatrixEdge{DistanceMeters: 1200}, -time.Second)
	_, ok = cache.Get(k)
	assert.False(t, ok)
}
