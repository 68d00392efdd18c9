// Package public embeds the static assets served under /assets/.
package public

import (
	"embed"
	"io/fs"
)

//go:embed assets
var files embed.FS

// Assets returns the assets directory as the root of the file system.
func Assets() fs.FS {
	sub, err := fs.Sub(files, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
