//go:build tools
// +build tools

// Tool dependencies for go generate (mockgen). Never compiled into the binary.
package main

import (
	_ "go.uber.org/mock/mockgen"
)
