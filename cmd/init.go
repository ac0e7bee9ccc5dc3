package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/factory"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a factory state directory",
	Long: `Create a fresh factory aggregate in the state directory.

The --as address becomes the factory owner and initial fee recipient. The
three built-in templates (basic, mintable, full) are deployed and registered.

Example:
  tokenforge init --as 0xYourAddress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if state != nil {
			return fmt.Errorf("state already initialized in %s", stDir)
		}
		owner, err := requireCaller()
		if err != nil {
			return err
		}

		state = factory.NewState(owner)
		if err := saveState(); err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Factory Initialized", [][2]string{
			{"State Dir", stDir},
			{"Owner", ui.Addr(owner.Hex())},
			{"Factory", ui.Addr(state.Address.Hex())},
			{"Service Fee", ui.Val(state.Fees.Fee().Dec() + " wei")},
			{"Templates", "basic, mintable, full"},
		}))
		return nil
	},
}
