// Package main is the entry point for the bindgen CLI tool.
package main

import (
	"github.com/nats-io/bindgen/internal/cmd"
)

func main() {
	cmd.Execute()
}
