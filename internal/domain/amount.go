package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// TokenDecimals is the fixed-point precision of the governance token
const TokenDecimals = 18

var tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

// TokenUnit returns 10^18, the base-unit value of one whole token
func TokenUnit() *big.Int {
	return new(big.Int).Set(tokenUnit)
}

// Tokens converts a whole-token count to base units
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), tokenUnit)
}

// ParseTokenAmount parses a decimal token amount such as "12.5" into base
// units. A "wei" suffix parses the value as raw base units.
func ParseTokenAmount(s string) (*big.Int, error) {
	return ParseUnits(s, TokenDecimals)
}

// ParseUnits parses a decimal amount with the given number of decimals into
// base units, so ParseUnits("1.5", 9) is 1.5 gwei in wei. A "wei" suffix
// parses the value as raw base units.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if raw, ok := strings.CutSuffix(s, "wei"); ok {
		v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
		if !ok || v.Sign() < 0 {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		return v, nil
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// FormatTokenAmount renders base units as a decimal token amount
func FormatTokenAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(v, tokenUnit, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	digits := new(big.Int).Abs(r).String()
	frac := strings.Repeat("0", TokenDecimals-len(digits)) + digits
	sign := ""
	if v.Sign() < 0 && q.Sign() == 0 {
		sign = "-"
	}
	return sign + q.String() + "." + strings.TrimRight(frac, "0")
}
