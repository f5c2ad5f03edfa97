package utils

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// ParseAmount parses a decimal amount, allowing "_" digit separators (1_000).
func ParseAmount(s string) (*uint256.Int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if cleaned == "" {
		return nil, fmt.Errorf("empty amount")
	}
	amount, err := uint256.FromDecimal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

// Uint256ToString renders nil as "0"
func Uint256ToString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// Uint256FromString returns zero for empty or malformed input
func Uint256FromString(s string) *uint256.Int {
	if s == "" {
		return uint256.NewInt(0)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.NewInt(0)
	}
	return v
}
