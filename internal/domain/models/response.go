package models

import "net/url"

// RedirectForm tells the caller how to send the shopper to the connector's
// authentication or bank page. When a connector supplies a URL without
// explicit form fields, the URL's own query parameters become the fields.
type RedirectForm struct {
	Endpoint string
	Method   string
	Fields   map[string]string
}

// NewRedirectForm builds a redirect form from a URL plus optional explicit
// fields, preserving the query-parameter fallback.
func NewRedirectForm(rawURL, method string, fields map[string]string) RedirectForm {
	form := RedirectForm{Endpoint: rawURL, Method: method, Fields: fields}
	if len(fields) != 0 {
		return form
	}
	form.Fields = map[string]string{}
	if u, err := url.Parse(rawURL); err == nil {
		for k, vs := range u.Query() {
			if len(vs) > 0 {
				form.Fields[k] = vs[0]
			}
		}
	}
	return form
}

// VoucherDetails is present-to-shopper metadata for cash voucher flows.
type VoucherDetails struct {
	Reference  string
	ExpiresAt  string // RFC 3339
	DownloadURL string
	Instructions string
}

// QrCodeDetails carries an encoded QR image plus the raw data it encodes.
type QrCodeDetails struct {
	QrCodeData string // base64 image data
	QrCodeURL  string
	ExpiresAt  string
}

// CaptureData is one entry of a multi-capture sync response, keyed by the
// connector's capture id.
type CaptureData struct {
	ConnectorCaptureID string
	Status             AttemptStatus
	AmountMinor        MinorUnit
	Currency           string
}

// ResponseData is the canonical success payload of any flow: the connector
// resource id plus whichever optional instructions the flow produced.
type ResponseData struct {
	ConnectorTransactionID string
	ConnectorResponseReference string
	Redirect        *RedirectForm
	Mandate         *MandateReference
	Charges         *ChargeData
	Voucher         *VoucherDetails
	QrCode          *QrCodeDetails
	Captures        []CaptureData // populated only on multi-capture sync
	NetworkTransactionID string
	NetworkDeclineCode   string
	NetworkErrorMessage  string
}
