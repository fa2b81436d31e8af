// Command v2i converts a video, GIF, or clipboard image into a set of
// size/quality-optimized still frames for pasting into an LLM prompt.
package main

import (
	"os"

	"github.com/v2i-cli/v2i/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
