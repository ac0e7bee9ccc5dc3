package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show factory statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.KeyValueBlock("Factory Stats", [][2]string{
			{"Factory", ui.Addr(state.Address.Hex())},
			{"Owner", ui.Addr(state.Owner.Hex())},
			{"Tokens Created", ui.Val(fmt.Sprintf("%d", engine.GetTotalTokensCreated()))},
			{"Fees Collected", ui.Val(engine.GetTotalFeesCollected().Dec() + " wei")},
			{"Service Fee", engine.GetServiceFee().Dec() + " wei"},
			{"Fee Recipient", ui.Addr(engine.GetFeeRecipient().Hex())},
			{"Templates", fmt.Sprintf("%d", len(engine.GetAllTemplates()))},
		}))
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <creator>",
	Short: "List tokens deployed by a creator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creator, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		addrs := engine.GetTokensByCreator(creator)
		if len(addrs) == 0 {
			fmt.Println(ui.Meta("no tokens deployed by " + creator.Hex()))
			return nil
		}

		tbl := ui.NewTable([]ui.Column{
			{Title: "Instance", Width: 44},
			{Title: "Symbol", Width: 10},
			{Title: "Name", Width: 24},
			{Title: "Features", Width: 36},
		})
		for _, addr := range addrs {
			sym, name, feats := "?", "?", "?"
			if t, ok := engine.GetToken(addr); ok {
				sym, name, feats = t.Symbol(), t.Name(), t.Features().String()
			}
			tbl.AddRow(ui.Row{addr.Hex(), sym, name, feats})
		}
		fmt.Print(tbl.Render())
		return nil
	},
}

var deployedCmd = &cobra.Command{
	Use:   "deployed <symbol>",
	Short: "Check whether a symbol was ever deployed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if engine.IsTokenDeployed(args[0]) {
			fmt.Println(ui.Success(args[0] + " is deployed"))
		} else {
			fmt.Println(ui.Meta(args[0] + " is not deployed"))
		}
		return nil
	},
}
