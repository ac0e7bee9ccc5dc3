package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/factory"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var predictTemplate string

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a deployment address without deploying",
	Long: `Compute the address an instance would deploy to, from the caller and
the full configuration. The prediction is pure: it can be repeated any number
of times, is unaffected by other deployments, and the actual deployment lands
exactly there.

Example:
  tokenforge predict --as 0xYou --name "My Token" --symbol MTK --supply 1000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := requireCaller()
		if err != nil {
			return err
		}
		cfg, err := buildConfig(asAddr)
		if err != nil {
			return err
		}

		var addr common.Address
		templateID := predictTemplate
		if templateID == "" {
			templateID = factory.SelectTemplate(cfg.Features())
			addr, err = engine.PredictAddress(caller, cfg)
		} else {
			addr, err = engine.PredictAddressWithTemplate(caller, cfg, templateID)
		}
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Predicted Deployment", [][2]string{
			{"Instance", ui.Addr(addr.Hex())},
			{"Creator", ui.Addr(caller.Hex())},
			{"Template", ui.Template(templateID)},
			{"Config Hash", ui.Addr(cfg.Hash().Hex())},
		}))
		return nil
	},
}

func init() {
	addConfigFlags(predictCmd)
	predictCmd.Flags().StringVar(&predictTemplate, "template", "", "explicit template id (default: auto-select)")
}
