package main

import (
	"os"

	"github.com/poi-crawler/cmd/poictl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
