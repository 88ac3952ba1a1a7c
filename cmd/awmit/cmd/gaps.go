package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corey/awmit/internal/adapters/bbolt"
	"github.com/corey/awmit/internal/app"
	"github.com/corey/awmit/internal/ports"
	"github.com/spf13/cobra"
)

var (
	gapsDB    string
	gapsScope string
	gapsLimit int
	gapsJSON  bool
	gapsReset bool
	gapsForce bool
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Show the most frequent unanswered queries",
	Long:  "Reads the gap log written by 'awmit serve'. Only normalized query text is stored. The log is locked while the server runs.",
	Args:  cobra.NoArgs,
	RunE:  runGaps,
}

func init() {
	f := gapsCmd.Flags()
	f.StringVar(&gapsDB, "db", "", "Gap log database (default .awmit/gaps.db) [$AWMIT_DB]")
	f.StringVar(&gapsScope, "scope", "", "Only this scope: a course slug or \"global\" (default all)")
	f.IntVarP(&gapsLimit, "limit", "n", 20, "Maximum rows (0 = all)")
	f.BoolVar(&gapsJSON, "json", false, "Print rows as JSON")
	f.BoolVar(&gapsReset, "reset", false, "Delete every recorded query")
	f.BoolVar(&gapsForce, "force", false, "Skip the --reset confirmation prompt")
}

func runGaps(cmd *cobra.Command, args []string) error {
	dbPath := gapsDB
	if dbPath == "" {
		dbPath = app.NewPaths(workDir()).DB
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("no gap log yet")
		return nil
	}

	store, err := bbolt.NewStore(dbPath)
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("cannot read gaps: %s", dbLockHint(dbPath))
		}
		return fmt.Errorf("open gap log: %w", err)
	}
	defer store.Close()

	if gapsReset {
		return resetGaps(store)
	}

	misses, err := store.TopMisses(gapsScope, gapsLimit)
	if err != nil {
		return err
	}
	if gapsJSON {
		if misses == nil {
			misses = []ports.Miss{}
		}
		data, err := json.MarshalIndent(misses, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(formatMisses(misses))
	return nil
}

// confirmReset asks before wiping the gap log. A read error with no input
// (closed stdin) counts as "no".
func confirmReset(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "This will delete every recorded query. Continue? [y/N] ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out, "cancelled")
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(out, "cancelled")
		return false
	}
	return true
}

func resetGaps(store ports.GapStore) error {
	if !gapsForce && !confirmReset(os.Stdin, os.Stdout) {
		return nil
	}
	if err := store.Reset(); err != nil {
		return fmt.Errorf("reset gap log: %w", err)
	}
	fmt.Println("gap log reset")
	return nil
}
