package relay

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrAmountInvalid  = errors.New("please enter a valid amount")
	ErrAmountPositive = errors.New("the amount must be positive")
)

// ParseAmount validates raw user input for a transfer. It accepts any finite
// decimal greater than zero and returns it unchanged.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrAmountInvalid
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrAmountInvalid
	}
	if v <= 0 {
		return 0, ErrAmountPositive
	}
	return v, nil
}
