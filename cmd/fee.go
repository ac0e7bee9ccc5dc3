package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var feeCmd = &cobra.Command{
	Use:   "fee",
	Short: "Inspect and administer the service fee",
	Long: `Read or change the per-deployment service fee and its recipient.

Sub-commands:
  tokenforge fee get
  tokenforge fee set <wei>              — owner only
  tokenforge fee set-recipient <addr>   — owner only
  tokenforge fee balance <addr>`,
}

var feeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current fee and recipient",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.KeyValueBlock("Service Fee", [][2]string{
			{"Fee", ui.Val(engine.GetServiceFee().Dec() + " wei")},
			{"Recipient", ui.Addr(engine.GetFeeRecipient().Hex())},
			{"Collected", ui.Val(engine.GetTotalFeesCollected().Dec() + " wei")},
		}))
		return nil
	},
}

var feeSetCmd = &cobra.Command{
	Use:   "set <wei>",
	Short: "Set the service fee — owner only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := requireCaller()
		if err != nil {
			return err
		}
		fee, err := parseWei(args[0])
		if err != nil {
			return err
		}
		if err := engine.SetServiceFee(caller, fee); err != nil {
			return err
		}
		if err := saveState(); err != nil {
			return err
		}
		fmt.Println(ui.Success("service fee set to " + fee.Dec() + " wei"))
		return nil
	},
}

var feeSetRecipientCmd = &cobra.Command{
	Use:   "set-recipient <addr>",
	Short: "Set the fee recipient — owner only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := requireCaller()
		if err != nil {
			return err
		}
		recipient, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		if err := engine.SetFeeRecipient(caller, recipient); err != nil {
			return err
		}
		if err := saveState(); err != nil {
			return err
		}
		fmt.Println(ui.Success("fee recipient set to " + recipient.Hex()))
		return nil
	},
}

var feeBalanceCmd = &cobra.Command{
	Use:   "balance <addr>",
	Short: "Show the native balance credited to an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.Val(engine.NativeBalance(addr).Dec() + " wei"))
		return nil
	},
}

func init() {
	feeCmd.AddCommand(feeGetCmd, feeSetCmd, feeSetRecipientCmd, feeBalanceCmd)
}
