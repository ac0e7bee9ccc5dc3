package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/events"
	"github.com/Mohsinsiddi/tokenforge/internal/factory"
	"github.com/Mohsinsiddi/tokenforge/internal/store"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/tokenforge/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	stateDir string
	asAddr   string

	stDir    string            // resolved state directory
	state    *factory.State    // nil until initialized
	eventLog *events.Log
	engine   *factory.Factory
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "tokenforge",
	Short: "Deterministic token factory",
	Long: `tokenforge — deploy parameterized token instances at deterministic
addresses, under owner-controlled templates and fee policy.

Every command reads and writes a local state directory (default ~/.tokenforge).
The calling identity is supplied with --as; ownership checks are enforced
against it exactly as the engine enforces them.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		stDir, err = store.Dir(stateDir)
		if err != nil {
			return err
		}
		state, _, err = store.LoadState(stDir)
		if err != nil {
			return fmt.Errorf("loading state: %w", err)
		}
		if state == nil {
			// Only init may run without existing state.
			if cmd.Name() == "init" {
				return nil
			}
			return fmt.Errorf("no state in %s — run `tokenforge init --as <owner>` first", stDir)
		}

		eventLog, err = events.OpenLog(store.EventLogPath(stDir))
		if err != nil {
			return err
		}
		engine = factory.New(state, eventLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if eventLog != nil {
			eventLog.Close()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// saveState flushes the aggregate back to the state directory.
func saveState() error {
	if err := store.SaveState(stDir, state); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func init() {
	// TOKENFORGE_STATE_DIR env var overrides --state-dir.
	if envDir := os.Getenv("TOKENFORGE_STATE_DIR"); envDir != "" {
		stateDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", stateDir, "state directory (default: ~/.tokenforge)")
	rootCmd.PersistentFlags().StringVar(&asAddr, "as", "", "caller address (0x...)")

	rootCmd.AddCommand(
		initCmd,
		createCmd,
		predictCmd,
		validateCmd,
		costCmd,
		templateCmd,
		feeCmd,
		statsCmd,
		tokensCmd,
		deployedCmd,
		tokenCmd,
		eventsCmd,
	)
}
