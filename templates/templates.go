// Package templates embeds the html/template sources. In dev mode the server reads the
// same files from disk instead.
package templates

import "embed"

//go:embed *.tmpl partials/*.tmpl
var FS embed.FS
