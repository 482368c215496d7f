package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.Items())

	it, err := c.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "Mutton Handi", it.Name)
	assert.Equal(t, 300, it.Price)

	_, err = c.Lookup(999)
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestItem_CartItem(t *testing.T) {
	it := Item{ID: 5, Name: "Butter Naan", Price: 40, Image: "naan.png", Description: "Soft"}
	ci := it.CartItem(3)

	assert.Equal(t, 5, ci.ID)
	assert.Equal(t, "Butter Naan", ci.Name)
	assert.Equal(t, 40, ci.Price)
	assert.Equal(t, 3, ci.Quantity)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "bad yaml", doc: "items: ["},
		{name: "zero id", doc: "items:\n  - id: 0\n    name: x\n"},
		{name: "no name", doc: "items:\n  - id: 1\n"},
		{name: "negative price", doc: "items:\n  - id: 1\n    name: x\n    price: -5\n"},
		{name: "duplicate", doc: "items:\n  - id: 1\n    name: x\n  - id: 1\n    name: y\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestParse_DefaultDescription(t *testing.T) {
	c, err := Parse([]byte("items:\n  - id: 9\n    name: Raita\n    price: 30\n"))
	require.NoError(t, err)

	it, err := c.Lookup(9)
	require.NoError(t, err)
	assert.Equal(t, "Delicious traditional dish", it.Description)
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Items())

	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - id: 1\n    name: Kheer\n    price: 90\n"), 0o600))
	c, err = Load(path)
	require.NoError(t, err)
	require.Len(t, c.Items(), 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
