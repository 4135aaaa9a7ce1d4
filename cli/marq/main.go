package main

import (
	"os"

	marqcmder "github.com/marqlabs/marq/cmd/marq"
)

func main() {
	cmd := marqcmder.NewMarqCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
