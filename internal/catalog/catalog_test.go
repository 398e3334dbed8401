package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	models := c.Models()
	require.Len(t, models, 3)
	assert.Equal(t, "standard", models[0].ID)
	assert.Equal(t, "professional", models[1].ID)
	assert.Equal(t, "executive", models[2].ID)

	standard, ok := c.Lookup("standard")
	require.True(t, ok)
	assert.Equal(t, "24.99", standard.PriceMonthly.StringFixed(2))

	executive, ok := c.Lookup("executive")
	require.True(t, ok)
	assert.Equal(t, "39.99", executive.PriceMonthly.StringFixed(2))
}

func TestLookup_Unknown(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, ok := c.Lookup("deluxe")
	assert.False(t, ok)
}

func TestModels_ReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	models := c.Models()
	models[0].ID = "mutated"

	assert.Equal(t, "standard", c.Models()[0].ID)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "models: []"},
		{"invalid yaml", "models: ["},
		{"missing id", "models:\n  - name: X\n    priceMonthly: \"1.00\""},
		{"bad price", "models:\n  - id: x\n    priceMonthly: abc"},
		{"zero price", "models:\n  - id: x\n    priceMonthly: \"0\""},
		{"duplicate", "models:\n  - id: x\n    priceMonthly: \"1\"\n  - id: x\n    priceMonthly: \"2\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	err := os.WriteFile(path, []byte("models:\n  - id: mini\n    name: Mini\n    priceMonthly: \"9.50\"\n"), 0o600)
	require.NoError(t, err)

	c, err := Load(path)
	require.NoError(t, err)

	mini, ok := c.Lookup("mini")
	require.True(t, ok)
	assert.Equal(t, "Mini", mini.Name)
	assert.Equal(t, "9.50", mini.PriceMonthly.StringFixed(2))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
