package main

import (
	"os"

	"tuiwbs/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
