// Command kvserver bootstraps configuration, logging, metrics, and the
// server supervisor, then blocks until an interrupt or termination signal
// triggers a graceful shutdown.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
