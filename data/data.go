// Package data embeds the sample catalogue served when no catalogue file is configured.
package data

import "embed"

//go:embed catalogue.yaml
var FS embed.FS

// CatalogueFile is the embedded catalogue's name inside FS.
const CatalogueFile = "catalogue.yaml"
