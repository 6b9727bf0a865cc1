package controllers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nutcrate/nutcrate-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTextChunk(t *testing.T) {
	chunk := encodeTextChunk(`Sure! Our "Classic" jar is great.`)

	require.True(t, strings.HasPrefix(chunk, "0:"))
	require.True(t, strings.HasSuffix(chunk, "\n"))

	var decoded string
	err := json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(chunk, "0:"), "\n")), &decoded)
	require.NoError(t, err)
	assert.Equal(t, `Sure! Our "Classic" jar is great.`, decoded)
}

func TestEncodeDataChunk(t *testing.T) {
	cards := []productCard{{Name: "Classic Smooth", Slug: "classic-smooth", Price: 349}}
	chunk := encodeDataChunk(cards)

	require.True(t, strings.HasPrefix(chunk, "2:"))
	require.True(t, strings.HasSuffix(chunk, "\n"))

	var decoded []productCard
	err := json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(chunk, "2:"), "\n")), &decoded)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "classic-smooth", decoded[0].Slug)
}

func TestMatchProducts(t *testing.T) {
	catalog := []models.Product{
		{Name: "Classic Smooth", Slug: "classic-smooth", Price: 349},
		{Name: "Dark Chocolate Crunchy", Slug: "dark-chocolate-crunchy", Price: 449},
	}

	matched := matchProducts("is the classic smooth jar in stock?", catalog)
	require.Len(t, matched, 1)
	assert.Equal(t, "classic-smooth", matched[0].Slug)

	assert.Empty(t, matchProducts("do you ship to Pune?", catalog))
}
