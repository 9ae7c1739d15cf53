//go:build tools
// +build tools

// Package tools tracks the code generators run through go generate (mockgen)
// so they stay pinned in go.mod.
package chat_rooms

import (
	_ "go.uber.org/mock/mockgen"
)
