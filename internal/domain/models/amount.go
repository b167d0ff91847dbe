package models

import (
	"github.com/shopspring/decimal"
)

// MinorUnit is a money amount in the currency's smallest denomination.
// All arithmetic on money stays in integer minor units; conversion to a
// major-unit string happens only at the wire boundary for connectors
// whose API demands it.
type MinorUnit int64

// currencyExponents lists currencies whose exponent differs from 2.
var currencyExponents = map[string]int32{
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"MGA": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
}

func exponent(currency string) int32 {
	if e, ok := currencyExponents[currency]; ok {
		return e
	}
	return 2
}

// MajorUnitString renders the amount as a decimal major-unit string for the
// given ISO currency, e.g. 1050 USD -> "10.50", 1050 JPY -> "1050".
func (m MinorUnit) MajorUnitString(currency string) string {
	exp := exponent(currency)
	return decimal.New(int64(m), -exp).StringFixed(exp)
}

// MinorUnitFromMajorString parses a connector-reported major-unit decimal
// string back into minor units.
func MinorUnitFromMajorString(s, currency string) (MinorUnit, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return MinorUnit(d.Shift(exponent(currency)).IntPart()), nil
}
