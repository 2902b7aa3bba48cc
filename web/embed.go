// Package web holds the embedded browser frontend.
package web

import "embed"

//go:embed static
var Static embed.FS
