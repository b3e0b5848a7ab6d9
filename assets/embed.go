// Package assets embeds the static files served under /assets/.
// css/output.css is generated by "go run ./cmd/do gen".
package assets

import "embed"

//go:embed css js img
var AssetsFS embed.FS
