package util

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// FormatGwei renders a wei amount in gwei, dropping trailing zero decimals.
// A nil amount renders as "auto".
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "auto"
	}
	sign := ""
	if wei.Sign() < 0 {
		sign = "-"
	}
	unit := big.NewInt(params.GWei)
	whole, frac := new(big.Int).QuoRem(new(big.Int).Abs(wei), unit, new(big.Int))
	if frac.Sign() == 0 {
		return sign + whole.String() + " gwei"
	}
	decimals := strings.TrimRight(leftPad(frac.String(), 9), "0")
	return sign + whole.String() + "." + decimals + " gwei"
}

// FormatWei renders a wei amount as a decimal string
func FormatWei(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}
	return wei.String()
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
