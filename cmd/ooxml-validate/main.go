package main

import (
	"os"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/inbound/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
