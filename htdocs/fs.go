package htdocs

import (
	"embed"
	"io/fs"
)

//go:embed *.html *.css *.js
var static embed.FS

func FS() fs.FS {
	return &static
}
