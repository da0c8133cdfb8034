//go:build tools

// Package tools pins build tooling versions in go.mod.
package tools

import (
	_ "github.com/nikolaydubina/go-cover-treemap"
)
