package main

import (
	"os"

	"github.com/radutopala/rememberizer-mcp/cmd/rememberizer-vectordb-mcp/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
