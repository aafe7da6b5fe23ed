package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogOrderIsPinned(t *testing.T) {
	t.Parallel()

	var ids []ProductID
	for _, p := range Catalog() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []ProductID{
		ProductAspect, ProductRightAngle, ProductTriplePoint, ProductOpenlink, ProductAllegro,
	}, ids)
}

func TestCatalogEntriesComplete(t *testing.T) {
	t.Parallel()

	seen := make(map[ProductID]bool)
	for _, p := range Catalog() {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
		assert.NotEmpty(t, p.KeyStrengths)
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	t.Parallel()

	c := Catalog()
	c[0].Name = "Mutated"
	c[0].KeyStrengths[0] = "Mutated"

	fresh := Catalog()
	assert.Equal(t, "Aspect", fresh[0].Name)
	assert.Equal(t, "Cloud-native", fresh[0].KeyStrengths[0])
}

func TestProductByID(t *testing.T) {
	t.Parallel()

	p, ok := ProductByID(Catalog(), ProductOpenlink)
	require.True(t, ok)
	assert.Equal(t, "Openlink", p.Name)

	_, ok = ProductByID(Catalog(), "endur")
	assert.False(t, ok)
}
