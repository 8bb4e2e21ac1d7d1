// main is the entry point for the ezgm CLI.
package main

import (
	"fmt"
	"os"

	"github.com/odakan/EzGM/cmd"
	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/internal/runstore"
)

func main() {
	err := cmd.Execute()

	// Stop profiling and flush the run store before deciding the exit code.
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Failed to stop profiling", profErr)
	}
	runstore.CloseStore()

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
