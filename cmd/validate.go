package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/factory"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a token configuration",
	Long: `Check a configuration against every policy rule without deploying.
Symbol uniqueness is not checked here — that happens only at deployment, so
there is no window between validation and deployment to race against.

Example:
  tokenforge validate --as 0xYou --name "My Token" --symbol MTK --supply 1000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(asAddr)
		if err != nil {
			return err
		}
		ok, reason := factory.ValidateConfig(cfg)
		if !ok {
			fmt.Println(ui.Err("invalid configuration: " + reason))
			return nil
		}
		fmt.Println(ui.Success("configuration is valid"))
		fmt.Println(ui.Meta("auto-selected template: " + factory.SelectTemplate(cfg.Features())))
		return nil
	},
}

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate the deployment cost of a configuration",
	Long: `Estimate the work units for deploying a configuration, alongside the
current service fee. Each enabled feature adds a fixed increment.

Example:
  tokenforge cost --as 0xYou --name "My Token" --symbol MTK --supply 1000000 --mintable --capped --max-supply 2000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(asAddr)
		if err != nil {
			return err
		}
		work, fee := engine.CalculateDeploymentCost(cfg)

		fmt.Println(ui.KeyValueBlock("Deployment Cost", [][2]string{
			{"Features", cfg.Features().String()},
			{"Estimated Work", ui.Val(fmt.Sprintf("%d units", work))},
			{"Service Fee", ui.Val(fee.Dec() + " wei")},
		}))
		return nil
	},
}

func init() {
	addConfigFlags(validateCmd)
	addConfigFlags(costCmd)
}
