package main

import (
	"os"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/root"
)

func main() {
	os.Exit(root.Execute())
}
