// Command tidal-ripper downloads lossless tracks, albums and playlists from
// the Tidal catalog into a tagged FLAC library.
//
// Usage:
//
//	tidal-ripper <login> <password> [output_dir]           interactive menu
//	tidal-ripper get <login> <password> <output_dir> <link>...
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		os.Exit(1)
	}
}
