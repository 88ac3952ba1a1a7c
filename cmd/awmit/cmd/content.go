package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/corey/awmit/internal/app"
	"github.com/corey/awmit/internal/domain/bank"
	"github.com/corey/awmit/internal/domain/engine"
)

// loadEngine builds an engine over --content-dir or the embedded content.
// Integrity problems are printed one per line before the error is returned.
func loadEngine() (*engine.Engine, error) {
	reg, err := app.LoadContent(contentDir)
	if err != nil {
		printIntegrity(err)
		return nil, err
	}
	return engine.New(reg), nil
}

// printIntegrity lists each problem of an IntegrityError on stderr.
func printIntegrity(err error) {
	var ie *bank.IntegrityError
	if !errors.As(err, &ie) {
		return
	}
	fmt.Fprintf(os.Stderr, "%s✗ %d integrity problems%s\n", colorRed, len(ie.Problems), colorReset)
	for _, p := range ie.Problems {
		fmt.Fprintf(os.Stderr, "  • %s\n", p)
	}
}
