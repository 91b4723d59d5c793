package htdocs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets(t *testing.T) {
	for _, name := range []string{"index.html", "style.css", "app.js"} {
		b, err := fs.ReadFile(FS(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, b, name)
	}

	js, err := fs.ReadFile(FS(), "app.js")
	require.NoError(t, err)
	assert.Contains(t, string(js), `"/api/chat"`)
	assert.Contains(t, string(js), "!event.shiftKey")
}
