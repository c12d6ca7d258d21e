package article

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceView(t *testing.T) {
	art := Article{Title: "T", Content: "body", URL: "https://example.com/a", Date: "2024-01-01"}

	src := art.Source()
	assert.Equal(t, "body", src.Content)

	stripped := src.Stripped()
	assert.Empty(t, stripped.Content)
	assert.Equal(t, "T", stripped.Title)
	// Original view keeps its content for prompt construction.
	assert.Equal(t, "body", src.Content)
}

func TestStripContent(t *testing.T) {
	sources := []Source{
		{Title: "A", URL: "https://example.com/a", Content: "body a"},
		{Title: "B", URL: "https://example.com/b", Content: "body b"},
	}

	for _, src := range StripContent(sources) {
		assert.Empty(t, src.Content)
	}
}

func TestStrippedSourceJSONOmitsContent(t *testing.T) {
	data, err := json.Marshal(Source{Title: "T", URL: "https://example.com/a"}.Stripped())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "content")
}
