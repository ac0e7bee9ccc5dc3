package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/factory"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

// ── shared config flag vars (create / predict / validate / cost) ──────────────

var (
	cfgName      string
	cfgSymbol    string
	cfgSupply    string
	cfgDecimals  uint8
	cfgOwner     string
	cfgMintable  bool
	cfgBurnable  bool
	cfgPausable  bool
	cfgCapped    bool
	cfgMaxSupply string

	createTemplate string
	createPay      string
)

// buildConfig assembles a factory.Config from the shared flags. The initial
// owner defaults to the caller.
func buildConfig(caller string) (factory.Config, error) {
	ownerStr := cfgOwner
	if ownerStr == "" {
		ownerStr = caller
	}
	owner, err := parseAddr(ownerStr)
	if err != nil {
		return factory.Config{}, fmt.Errorf("initial owner: %w", err)
	}

	supply, err := scaleUnits(cfgSupply, cfgDecimals)
	if err != nil {
		return factory.Config{}, fmt.Errorf("supply: %w", err)
	}

	cfg := factory.Config{
		Name:         cfgName,
		Symbol:       cfgSymbol,
		TotalSupply:  supply,
		Decimals:     cfgDecimals,
		InitialOwner: owner,
		Mintable:     cfgMintable,
		Burnable:     cfgBurnable,
		Pausable:     cfgPausable,
		Capped:       cfgCapped,
	}
	if cfgMaxSupply != "" {
		if cfg.MaxSupply, err = scaleUnits(cfgMaxSupply, cfgDecimals); err != nil {
			return factory.Config{}, fmt.Errorf("max supply: %w", err)
		}
	}
	return cfg, nil
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfgName, "name", "", "token name (e.g. \"My Token\")")
	cmd.Flags().StringVar(&cfgSymbol, "symbol", "", "token symbol, uppercase (e.g. MTK)")
	cmd.Flags().StringVar(&cfgSupply, "supply", "", "initial supply in whole token units")
	cmd.Flags().Uint8Var(&cfgDecimals, "decimals", 18, "decimal places")
	cmd.Flags().StringVar(&cfgOwner, "owner", "", "initial owner (default: caller)")
	cmd.Flags().BoolVar(&cfgMintable, "mintable", false, "enable minting")
	cmd.Flags().BoolVar(&cfgBurnable, "burnable", false, "enable burning")
	cmd.Flags().BoolVar(&cfgPausable, "pausable", false, "enable pausing")
	cmd.Flags().BoolVar(&cfgCapped, "capped", false, "enforce a supply cap")
	cmd.Flags().StringVar(&cfgMaxSupply, "max-supply", "", "supply cap in whole token units (with --capped)")
}

// ── create ────────────────────────────────────────────────────────────────────

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Deploy a new token instance",
	Long: `Deploy a new token instance at its deterministic address.

Without --template the smallest matching template is auto-selected from the
requested feature flags. Payment must cover the current service fee; any
excess is refunded.

Examples:
  tokenforge create --as 0xYou --name "My Token" --symbol MTK --supply 1000000 --pay 10000000000000000
  tokenforge create --as 0xYou --name "Capped" --symbol CAP --supply 100 --capped --max-supply 1000 --pay 10000000000000000
  tokenforge create --as 0xYou --name "Custom" --symbol CST --supply 42 --template full --pay 10000000000000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := requireCaller()
		if err != nil {
			return err
		}
		cfg, err := buildConfig(asAddr)
		if err != nil {
			return err
		}
		payment, err := parseWei(createPay)
		if err != nil {
			return fmt.Errorf("payment: %w", err)
		}

		var receipt *factory.Receipt
		if createTemplate != "" {
			receipt, err = engine.CreateTokenWithTemplate(caller, cfg, createTemplate, payment)
		} else {
			receipt, err = engine.CreateToken(caller, cfg, payment)
		}
		if err != nil {
			return err
		}
		if err := saveState(); err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Token Deployed ✓", [][2]string{
			{"Instance", ui.Addr(receipt.Address.Hex())},
			{"Creator", ui.Addr(caller.Hex())},
			{"Name", cfg.Name},
			{"Symbol", cfg.Symbol},
			{"Supply", ui.Val(cfg.TotalSupply.Dec())},
			{"Decimals", fmt.Sprintf("%d", cfg.Decimals)},
			{"Features", cfg.Features().String()},
			{"Template", ui.Template(receipt.TemplateID)},
			{"Config Hash", ui.Addr(receipt.ConfigHash.Hex())},
			{"Fee Paid", receipt.FeePaid.Dec() + " wei"},
			{"Refund", receipt.Refund.Dec() + " wei"},
		}))
		return nil
	},
}

func init() {
	addConfigFlags(createCmd)
	createCmd.Flags().StringVar(&createTemplate, "template", "", "explicit template id (default: auto-select)")
	createCmd.Flags().StringVar(&createPay, "pay", "", "payment in wei (must cover the service fee)")
}
