package models

import "fmt"

// MandateReference addresses a stored recurring-payment authorization.
// Exactly one of the three schemes is populated: a connector-generated
// token, a card-network transaction id, or a network-token payment method
// id paired with its network transaction id.
type MandateReference struct {
	ConnectorMandateID   string
	NetworkTransactionID string
	PaymentMethodID      string
}

// NewMandateReference validates the exactly-one-scheme invariant.
// PaymentMethodID may accompany NetworkTransactionID (network-token scheme);
// every other combination is rejected.
func NewMandateReference(connectorMandateID, networkTxnID, paymentMethodID string) (MandateReference, error) {
	ref := MandateReference{
		ConnectorMandateID:   connectorMandateID,
		NetworkTransactionID: networkTxnID,
		PaymentMethodID:      paymentMethodID,
	}
	switch {
	case connectorMandateID != "" && networkTxnID == "" && paymentMethodID == "":
		return ref, nil
	case connectorMandateID == "" && networkTxnID != "":
		return ref, nil
	}
	return MandateReference{}, fmt.Errorf("mandate reference must use exactly one addressing scheme")
}

// IsZero reports whether no scheme is populated.
func (m MandateReference) IsZero() bool {
	return m.ConnectorMandateID == "" && m.NetworkTransactionID == "" && m.PaymentMethodID == ""
}
