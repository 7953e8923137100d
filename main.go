package main

import (
	"os"

	"github.com/vzahanych/forecast-gateway/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
