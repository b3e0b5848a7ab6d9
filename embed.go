package foodlog

import "embed"

// ContentFS holds the default markdown pages. A CONTENT_PATH directory on
// disk overrides it at runtime.
//
//go:embed content
var ContentFS embed.FS
