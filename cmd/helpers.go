package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// requireCaller parses the --as flag into an address.
func requireCaller() (common.Address, error) {
	if asAddr == "" {
		return common.Address{}, fmt.Errorf("--as <address> is required")
	}
	return parseAddr(asAddr)
}

func parseAddr(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// parseWei parses a decimal wei amount.
func parseWei(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// scaleUnits converts whole token units into base units (units * 10^decimals).
func scaleUnits(s string, decimals uint8) (*uint256.Int, error) {
	units, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	scale := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	out, overflow := new(uint256.Int).MulOverflow(units, scale)
	if overflow {
		return nil, fmt.Errorf("amount %q overflows at %d decimals", s, decimals)
	}
	return out, nil
}
