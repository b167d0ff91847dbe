package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnit_MajorUnitString(t *testing.T) {
	tests := []struct {
		amount   MinorUnit
		currency string
		want     string
	}{
		{1050, "USD", "10.50"},
		{1050, "JPY", "1050"},
		{1050, "KWD", "1.050"},
		{1, "USD", "0.01"},
		{0, "EUR", "0.00"},
		{999999, "GBP", "9999.99"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.amount.MajorUnitString(tt.currency),
			"%d %s", tt.amount, tt.currency)
	}
}

func TestMinorUnitFromMajorString(t *testing.T) {
	got, err := MinorUnitFromMajorString("10.50", "USD")
	require.NoError(t, err)
	assert.Equal(t, MinorUnit(1050), got)

	got, err = MinorUnitFromMajorString("1050", "JPY")
	require.NoError(t, err)
	assert.Equal(t, MinorUnit(1050), got)

	got, err = MinorUnitFromMajorString("1.050", "BHD")
	require.NoError(t, err)
	assert.Equal(t, MinorUnit(1050), got)

	_, err = MinorUnitFromMajorString("not-a-number", "USD")
	assert.Error(t, err)
}

func TestMinorUnit_RoundTrip(t *testing.T) {
	for _, currency := range []string{"USD", "JPY", "KWD"} {
		original := MinorUnit(123456)
		parsed, err := MinorUnitFromMajorString(original.MajorUnitString(currency), currency)
		require.NoError(t, err)
		assert.Equal(t, original, parsed, currency)
	}
}
