package models

// SplitType classifies one marketplace split instruction.
type SplitType string

const (
	SplitBalanceAccount SplitType = "BalanceAccount"
	SplitCommission     SplitType = "Commission"
	SplitAcquiringFees  SplitType = "AcquiringFees"
	SplitPaymentFee     SplitType = "PaymentFee"
	SplitTopUp          SplitType = "TopUp"
	SplitVAT            SplitType = "Vat"
)

// SplitItem is one sub-merchant share of a payment.
type SplitItem struct {
	AmountMinor MinorUnit `json:"amount"`
	Reference   string    `json:"reference"`
	SplitType   SplitType `json:"split_type"`
	Account     string    `json:"account,omitempty"`
	Description string    `json:"description,omitempty"`
}

// ChargeData carries marketplace split instructions. It is symmetric: the
// same shape rides on the authorize/capture/refund request and comes back
// on the response.
type ChargeData struct {
	Store  string      `json:"store,omitempty"`
	Splits []SplitItem `json:"splits,omitempty"`
}

// IsZero reports whether there is nothing to split.
func (c ChargeData) IsZero() bool {
	return c.Store == "" && len(c.Splits) == 0
}
