package main

import (
	"os"

	"github.com/forgecommerce/catalog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
