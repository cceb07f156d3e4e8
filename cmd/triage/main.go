// Package main is the entry point for the Triage-Bot CLI.
package main

import (
	"github.com/triagehq/triage-bot/cmd/triage/commands"
)

func main() {
	commands.Execute()
}
