package cmd

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/token"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var (
	templateImpl     string
	templateFeatures string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage the template registry",
	Long: `Inspect and administer the template registry. Registry edits only
affect future deployments; existing instances keep the implementation they
were bound to at deployment.

Sub-commands:
  tokenforge template list
  tokenforge template add <id> (--impl 0x... | --features mintable,burnable)
  tokenforge template remove <id>`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := engine.TemplateEntries()
		if len(entries) == 0 {
			fmt.Println(ui.Meta("no templates registered"))
			return nil
		}

		tbl := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 14},
			{Title: "Implementation", Width: 44},
			{Title: "Capabilities", Width: 36},
			{Title: "Active", Width: 6},
		})
		for _, e := range entries {
			caps := "?"
			if impl, ok := state.Codes.Get(e.Implementation); ok {
				caps = impl.Capabilities.String()
			}
			tbl.AddRow(ui.Row{e.ID, e.Implementation.Hex(), caps, fmt.Sprintf("%t", e.Active)})
		}
		fmt.Print(tbl.Render())
		return nil
	},
}

var templateAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Register (or overwrite) a template — owner only",
	Long: `Register a template. Either point --impl at already-deployed
implementation code, or pass --features to deploy new implementation code
with that capability set and register it in one step.

Examples:
  tokenforge template add premium --as 0xOwner --features mintable,burnable,capped
  tokenforge template add premium --as 0xOwner --impl 0xImplementationAddress`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := requireCaller()
		if err != nil {
			return err
		}
		id := args[0]

		var implAddr common.Address
		if templateImpl != "" {
			if implAddr, err = parseAddr(templateImpl); err != nil {
				return fmt.Errorf("implementation: %w", err)
			}
		} else {
			if templateFeatures == "" {
				return fmt.Errorf("either --impl or --features is required")
			}
			caps, err := parseFeatures(templateFeatures)
			if err != nil {
				return err
			}
			impl, err := engine.DeployImplementation(caller, caps)
			if err != nil {
				return err
			}
			implAddr = impl.Address
		}

		if err := engine.AddTemplate(caller, id, implAddr); err != nil {
			return err
		}
		if err := saveState(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("template %q → %s", id, ui.TruncateAddr(implAddr.Hex()))))
		return nil
	},
}

var templateRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a template — owner only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := requireCaller()
		if err != nil {
			return err
		}
		if err := engine.RemoveTemplate(caller, args[0]); err != nil {
			return err
		}
		if err := saveState(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("template %q removed", args[0])))
		return nil
	},
}

// parseFeatures parses a comma-separated capability list.
func parseFeatures(s string) (token.Features, error) {
	var f token.Features
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "mintable":
			f.Mintable = true
		case "burnable":
			f.Burnable = true
		case "pausable":
			f.Pausable = true
		case "capped":
			f.Capped = true
		case "":
		default:
			return f, fmt.Errorf("unknown feature %q (want mintable, burnable, pausable, capped)", part)
		}
	}
	return f, nil
}

func init() {
	templateAddCmd.Flags().StringVar(&templateImpl, "impl", "", "existing implementation address")
	templateAddCmd.Flags().StringVar(&templateFeatures, "features", "", "deploy new implementation with these capabilities")
	templateCmd.AddCommand(templateListCmd, templateAddCmd, templateRemoveCmd)
}
