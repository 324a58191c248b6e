package main

import (
	"os"

	"github.com/hupe1980/fsdebounce/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
