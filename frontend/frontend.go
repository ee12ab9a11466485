// Package frontend embeds the HTML pages and static assets served by the app.
package frontend

import (
	"embed"
	"io/fs"
)

//go:embed pages/*.html
var Pages embed.FS

//go:embed public
var public embed.FS

// Public returns the static assets rooted at public/.
func Public() fs.FS {
	sub, err := fs.Sub(public, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
