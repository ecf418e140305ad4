// Command tekconf writes config templates and shows resolved configuration
// for sections described in a TOML spec file.
package main

import (
	"os"

	"github.com/tekutils/tek/signals"
)

func main() {
	os.Exit(signals.Run(newRootCmd().ExecuteContext))
}
