// Package views holds the default templates the site renders. A project can
// copy them out with `showcase eject` and point templatesDir at the copy.
package views

import "embed"

//go:embed layouts pages components errors
var FS embed.FS
