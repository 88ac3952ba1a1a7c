// awmit is the AWMIT learning-portal chat agent.
// Single binary: serves the keyword-matched chat API and curates its content.
package main

import (
	"os"

	"github.com/corey/awmit/cmd/awmit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
