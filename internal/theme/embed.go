package theme

import "embed"

// EmbeddedThemes ships the stock theme definitions with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
