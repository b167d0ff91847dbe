package models

// Address is a canonical billing or shipping address.
type Address struct {
	FirstName string
	LastName  string
	Line1     string
	Line2     string
	City      string
	State     string
	Zip       string
	Country   string // ISO 3166-1 alpha-2
}

// FullName joins first and last name, tolerating either being empty.
func (a Address) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// BrowserInfo is device data collected for 3DS and device-fingerprinting
// flows. It is attached to outbound requests only when the flow needs it.
type BrowserInfo struct {
	UserAgent      string
	AcceptHeader   string
	Language       string
	ColorDepth     uint8
	ScreenHeight   uint32
	ScreenWidth    uint32
	TimeZoneOffset int32
	JavaEnabled    bool
	IPAddress      string
}

// PaymentContext carries the ancillary data mappers draw required fields
// from: addresses, contact details, browser info, and stored references.
type PaymentContext struct {
	Billing           *Address
	Shipping          *Address
	Email             string
	Phone             string
	PhoneCountryCode  string
	Browser           *BrowserInfo
	PaymentMethodType PaymentMethodType
	Locale            string
	// StatementDescriptor and line items ride on the attempt itself.
}
