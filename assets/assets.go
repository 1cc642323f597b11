// Package assets embeds the arenas shipped with the server binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed all:arenas
var arenaFS embed.FS

// Arenas returns the embedded filesystem holding the arenas/ folder.
func Arenas() fs.FS {
	return arenaFS
}
