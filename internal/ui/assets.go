// Package ui embeds the browser side of the dashboard: a thin renderer that
// applies page patches from the websocket and reports visibility and focus
// changes back.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

// Static returns the embedded static directory rooted at its contents.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}

// Index returns the dashboard page.
func Index() ([]byte, error) {
	return fs.ReadFile(assets, "static/index.html")
}
