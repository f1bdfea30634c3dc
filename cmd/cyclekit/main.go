package main

import (
	"os"

	"github.com/terraincognita07/cyclekit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
