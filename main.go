// main is the entry point for the gitpulse CLI.
package main

import (
	"github.com/huangsam/gitpulse/cmd"
	"github.com/huangsam/gitpulse/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot run gitpulse", err)
	}
}
