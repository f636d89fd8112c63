package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		err  error
	}{
		{raw: "12.5", want: 12.5},
		{raw: " 100 ", want: 100},
		{raw: "0.01", want: 0.01},
		{raw: "1e3", want: 1000},
		{raw: "", err: ErrAmountInvalid},
		{raw: "   ", err: ErrAmountInvalid},
		{raw: "abc", err: ErrAmountInvalid},
		{raw: "12,5", err: ErrAmountInvalid},
		{raw: "NaN", err: ErrAmountInvalid},
		{raw: "-Inf", err: ErrAmountInvalid},
		{raw: "0", err: ErrAmountPositive},
		{raw: "-5", err: ErrAmountPositive},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Zero(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
