//go:build tools
// +build tools

// Package tools pins the code generators invoked through go generate
// so that go.mod tracks them.
package chat_presence

import (
	_ "go.uber.org/mock/mockgen"
)
