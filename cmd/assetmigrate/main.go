// Package main provides the entry point for the assetmigrate CLI tool.
package main

import (
	"github.com/uisautomation/assetmigrate/cmd/assetmigrate/cmd"
)

// Version information populated by the build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
