package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/kapildev5262/Token-World/types"
	"github.com/shopspring/decimal"
)

// ToSubunit converts a decimal to a subunit amount represented as a *big.Int.
// Precision beyond the given decimals is truncated.
func ToSubunit(amount decimal.Decimal, decimals int8) *big.Int {
	return amount.Shift(int32(decimals)).BigInt()
}

// FromSubunit converts an amount in subunits represented as a *big.Int back
// to its decimal representation with the given number of decimal places (decimals).
func FromSubunit(amountInSubunit *big.Int, decimals int8) decimal.Decimal {
	if amountInSubunit == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amountInSubunit, -int32(decimals))
}

// FormatEther renders a wei amount in ether with trailing zeros removed
func FormatEther(wei *big.Int) string {
	return FromSubunit(wei, 18).String()
}

// ParseEther parses an ether amount into wei
func ParseEther(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid ether amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative ether amount %q", amount)
	}
	return ToSubunit(d, 18), nil
}

// ParseQuantity parses a base 10 integer quantity
func ParseQuantity(quantity string) (*big.Int, bool) {
	q, ok := new(big.Int).SetString(strings.TrimSpace(quantity), 10)
	if !ok {
		return nil, false
	}
	return q, true
}

// IsValidEthereumAddress checks if a string is a valid hex address
func IsValidEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// IsZeroAddress reports whether addr is the zero address
func IsZeroAddress(addr common.Address) bool {
	return addr == (common.Address{})
}

// APIResponse writes the standard response envelope
func APIResponse(ctx *gin.Context, code int, status string, message string, data interface{}) {
	ctx.JSON(code, types.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}
