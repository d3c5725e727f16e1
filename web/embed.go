// Package web holds the static presentation page.
package web

import _ "embed"

//go:embed index.html
var Index []byte
