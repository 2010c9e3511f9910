//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of epigrid requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/epigrid`, or use ./cmd/epigrid-term or ./cmd/epigrid-run.")
	os.Exit(2)
}
