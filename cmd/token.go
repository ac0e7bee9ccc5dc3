package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/token"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var (
	tokenAddr   string
	tokenTo     string
	tokenFrom   string
	tokenAmount string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Operate a deployed token instance",
	Long: `Call a deployed instance: transfers, mint, burn, pause, ownership.
Feature-gated operations fail unless the instance was deployed with the
matching flag enabled.

Sub-commands:
  tokenforge token info --token 0x...
  tokenforge token transfer --token 0x... --to 0x... --amount 100
  tokenforge token mint --token 0x... --to 0x... --amount 100
  tokenforge token burn --token 0x... --amount 100
  tokenforge token pause / unpause --token 0x...
  tokenforge token transfer-ownership --token 0x... --to 0x...
  tokenforge token renounce --token 0x...`,
}

// loadToken resolves --token into a deployed instance.
func loadToken() (*token.Token, common.Address, error) {
	addr, err := parseAddr(tokenAddr)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("--token: %w", err)
	}
	t, ok := engine.GetToken(addr)
	if !ok {
		return nil, common.Address{}, fmt.Errorf("no token deployed at %s", addr.Hex())
	}
	return t, addr, nil
}

// tokenAmountUnits scales --amount by the instance's decimals.
func tokenAmountUnits(t *token.Token) (*uint256.Int, error) {
	return scaleUnits(tokenAmount, t.Decimals())
}

var tokenInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show instance state",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, addr, err := loadToken()
		if err != nil {
			return err
		}
		pairs := [][2]string{
			{"Instance", ui.Addr(addr.Hex())},
			{"Name", t.Name()},
			{"Symbol", t.Symbol()},
			{"Decimals", fmt.Sprintf("%d", t.Decimals())},
			{"Total Supply", ui.Val(t.TotalSupply().Dec())},
			{"Owner", ui.Addr(t.Owner().Hex())},
			{"Features", t.Features().String()},
			{"Paused", fmt.Sprintf("%t", t.Paused())},
			{"Implementation", ui.Addr(t.Implementation().Address.Hex())},
		}
		if t.IsCapped() {
			pairs = append(pairs, [2]string{"Max Supply", ui.Val(t.GetMaxSupply().Dec())})
		}
		fmt.Println(ui.KeyValueBlock("Token Info", pairs))
		return nil
	},
}

var tokenBalanceCmd = &cobra.Command{
	Use:   "balance <addr>",
	Short: "Show an account's balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, _, err := loadToken()
		if err != nil {
			return err
		}
		holder, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.Val(t.BalanceOf(holder).Dec()))
		return nil
	},
}

var tokenTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer tokens from the caller",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenMutation(func(t *token.Token, caller common.Address) error {
			to, err := parseAddr(tokenTo)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			amount, err := tokenAmountUnits(t)
			if err != nil {
				return err
			}
			if err := t.Transfer(caller, to, amount); err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("transferred %s %s to %s",
				tokenAmount, t.Symbol(), ui.TruncateAddr(to.Hex()))))
			return nil
		})
	},
}

var tokenMintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint new tokens — owner only, mintable only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenMutation(func(t *token.Token, caller common.Address) error {
			to, err := parseAddr(tokenTo)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			amount, err := tokenAmountUnits(t)
			if err != nil {
				return err
			}
			if err := t.Mint(caller, to, amount); err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("minted %s %s to %s",
				tokenAmount, t.Symbol(), ui.TruncateAddr(to.Hex()))))
			return nil
		})
	},
}

var tokenBurnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Burn tokens from the caller — burnable only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenMutation(func(t *token.Token, caller common.Address) error {
			amount, err := tokenAmountUnits(t)
			if err != nil {
				return err
			}
			if tokenFrom != "" {
				from, err := parseAddr(tokenFrom)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				if err := t.BurnFrom(caller, from, amount); err != nil {
					return err
				}
			} else if err := t.Burn(caller, amount); err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("burned %s %s", tokenAmount, t.Symbol())))
			return nil
		})
	},
}

var tokenPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause all transfers — owner only, pausable only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenMutation(func(t *token.Token, caller common.Address) error {
			if err := t.Pause(caller); err != nil {
				return err
			}
			fmt.Println(ui.Warn(t.Symbol() + " paused"))
			return nil
		})
	},
}

var tokenUnpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "Resume transfers — owner only, pausable only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenMutation(func(t *token.Token, caller common.Address) error {
			if err := t.Unpause(caller); err != nil {
				return err
			}
			fmt.Println(ui.Success(t.Symbol() + " unpaused"))
			return nil
		})
	},
}

var tokenTransferOwnershipCmd = &cobra.Command{
	Use:   "transfer-ownership",
	Short: "Hand the owner role to another address — owner only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenMutation(func(t *token.Token, caller common.Address) error {
			to, err := parseAddr(tokenTo)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			if err := t.TransferOwnership(caller, to); err != nil {
				return err
			}
			fmt.Println(ui.Success("ownership transferred to " + to.Hex()))
			return nil
		})
	},
}

var tokenRenounceCmd = &cobra.Command{
	Use:   "renounce",
	Short: "Renounce ownership permanently — owner only",
	Long: `Set the owner to the zero address. Every owner-gated operation
(mint, pause, ownership changes) becomes permanently unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenMutation(func(t *token.Token, caller common.Address) error {
			if err := t.RenounceOwnership(caller); err != nil {
				return err
			}
			fmt.Println(ui.Warn("ownership renounced — owner-gated operations are now unreachable"))
			return nil
		})
	},
}

// tokenMutation runs op against the instance and persists on success.
func tokenMutation(op func(*token.Token, common.Address) error) error {
	caller, err := requireCaller()
	if err != nil {
		return err
	}
	t, _, err := loadToken()
	if err != nil {
		return err
	}
	if err := op(t, caller); err != nil {
		return err
	}
	return saveState()
}

func init() {
	for _, c := range []*cobra.Command{
		tokenInfoCmd, tokenBalanceCmd, tokenTransferCmd, tokenMintCmd, tokenBurnCmd,
		tokenPauseCmd, tokenUnpauseCmd, tokenTransferOwnershipCmd, tokenRenounceCmd,
	} {
		c.Flags().StringVar(&tokenAddr, "token", "", "instance address")
	}
	tokenTransferCmd.Flags().StringVar(&tokenTo, "to", "", "recipient address")
	tokenTransferCmd.Flags().StringVar(&tokenAmount, "amount", "", "amount in whole token units")
	tokenMintCmd.Flags().StringVar(&tokenTo, "to", "", "recipient address")
	tokenMintCmd.Flags().StringVar(&tokenAmount, "amount", "", "amount in whole token units")
	tokenBurnCmd.Flags().StringVar(&tokenAmount, "amount", "", "amount in whole token units")
	tokenBurnCmd.Flags().StringVar(&tokenFrom, "from", "", "burn from this account via allowance")
	tokenTransferOwnershipCmd.Flags().StringVar(&tokenTo, "to", "", "new owner address")

	tokenCmd.AddCommand(
		tokenInfoCmd, tokenBalanceCmd, tokenTransferCmd, tokenMintCmd, tokenBurnCmd,
		tokenPauseCmd, tokenUnpauseCmd, tokenTransferOwnershipCmd, tokenRenounceCmd,
	)
}
