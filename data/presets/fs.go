package presets

import (
	"embed"
	"io/fs"
)

//go:embed *.yaml
var presets embed.FS

// DefaultName is the preset used when no file is configured
const DefaultName = "default.yaml"

func FS() fs.FS {
	return presets
}
