// Package locales embeds the translation bundles.
package locales

import "embed"

//go:embed *.json
var FS embed.FS
