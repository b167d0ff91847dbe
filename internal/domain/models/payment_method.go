package models

// PaymentMethodKind enumerates the top-level cases of the PaymentMethodData
// sum type. Exactly one case is active per attempt; connector mappers switch
// exhaustively over this enum so a new kind is a visible obligation for
// every connector.
type PaymentMethodKind string

const (
	KindCard            PaymentMethodKind = "card"
	KindWallet          PaymentMethodKind = "wallet"
	KindPayLater        PaymentMethodKind = "pay_later"
	KindBankRedirect    PaymentMethodKind = "bank_redirect"
	KindBankDebit       PaymentMethodKind = "bank_debit"
	KindBankTransfer    PaymentMethodKind = "bank_transfer"
	KindCardRedirect    PaymentMethodKind = "card_redirect"
	KindVoucher         PaymentMethodKind = "voucher"
	KindGiftCard        PaymentMethodKind = "gift_card"
	KindNetworkToken    PaymentMethodKind = "network_token"
	KindCardNetworkTxID PaymentMethodKind = "card_network_transaction_id"
	KindMandatePayment  PaymentMethodKind = "mandate_payment"
)

// CardNetwork is the card scheme reported with card payment method data.
type CardNetwork string

const (
	NetworkVisa            CardNetwork = "visa"
	NetworkMastercard      CardNetwork = "mastercard"
	NetworkAmex            CardNetwork = "amex"
	NetworkDiscover        CardNetwork = "discover"
	NetworkJCB             CardNetwork = "jcb"
	NetworkDinersClub      CardNetwork = "diners_club"
	NetworkUnionPay        CardNetwork = "union_pay"
	NetworkInterac         CardNetwork = "interac"
	NetworkCartesBancaires CardNetwork = "cartes_bancaires"
	NetworkMaestro         CardNetwork = "maestro"
)

// PaymentMethodData is the canonical payment method sum type. Exactly one
// field is non-nil; Kind reports which.
type PaymentMethodData struct {
	Card            *Card
	Wallet          *WalletData
	PayLater        *PayLaterData
	BankRedirect    *BankRedirectData
	BankDebit       *BankDebitData
	BankTransfer    *BankTransferData
	CardRedirect    *CardRedirectData
	Voucher         *VoucherData
	GiftCard        *GiftCardData
	NetworkToken    *NetworkTokenData
	CardNetworkTxID *CardNetworkTxIDData
	MandatePayment  *MandatePaymentData
}

// Kind returns the active case, or "" when no case is populated.
func (p PaymentMethodData) Kind() PaymentMethodKind {
	switch {
	case p.Card != nil:
		return KindCard
	case p.Wallet != nil:
		return KindWallet
	case p.PayLater != nil:
		return KindPayLater
	case p.BankRedirect != nil:
		return KindBankRedirect
	case p.BankDebit != nil:
		return KindBankDebit
	case p.BankTransfer != nil:
		return KindBankTransfer
	case p.CardRedirect != nil:
		return KindCardRedirect
	case p.Voucher != nil:
		return KindVoucher
	case p.GiftCard != nil:
		return KindGiftCard
	case p.NetworkToken != nil:
		return KindNetworkToken
	case p.CardNetworkTxID != nil:
		return KindCardNetworkTxID
	case p.MandatePayment != nil:
		return KindMandatePayment
	}
	return ""
}

// PaymentMethodType is the fine-grained scheme name used for status
// normalization and capability checks (e.g. a connector may treat "pix"
// pending differently from card pending).
type PaymentMethodType string

const (
	PMTCredit         PaymentMethodType = "credit"
	PMTDebit          PaymentMethodType = "debit"
	PMTGooglePay      PaymentMethodType = "google_pay"
	PMTApplePay       PaymentMethodType = "apple_pay"
	PMTPaypal         PaymentMethodType = "paypal"
	PMTGcash          PaymentMethodType = "gcash"
	PMTGoPay          PaymentMethodType = "go_pay"
	PMTKakaoPay       PaymentMethodType = "kakao_pay"
	PMTMomo           PaymentMethodType = "momo"
	PMTTouchNGo       PaymentMethodType = "touch_n_go"
	PMTWeChatPay      PaymentMethodType = "we_chat_pay"
	PMTMbWay          PaymentMethodType = "mb_way"
	PMTSamsungPay     PaymentMethodType = "samsung_pay"
	PMTKlarna         PaymentMethodType = "klarna"
	PMTAffirm         PaymentMethodType = "affirm"
	PMTAfterpay       PaymentMethodType = "afterpay_clearpay"
	PMTAlma           PaymentMethodType = "alma"
	PMTAtome          PaymentMethodType = "atome"
	PMTIdeal          PaymentMethodType = "ideal"
	PMTEps            PaymentMethodType = "eps"
	PMTBlik           PaymentMethodType = "blik"
	PMTTrustly        PaymentMethodType = "trustly"
	PMTBancontactCard PaymentMethodType = "bancontact_card"
	PMTOnlineBankingFinland PaymentMethodType = "online_banking_finland"
	PMTAch            PaymentMethodType = "ach"
	PMTSepa           PaymentMethodType = "sepa"
	PMTBacs           PaymentMethodType = "bacs"
	PMTBecs           PaymentMethodType = "becs"
	PMTPix            PaymentMethodType = "pix"
	PMTBoleto         PaymentMethodType = "boleto"
	PMTOxxo           PaymentMethodType = "oxxo"
	PMTAlfamart       PaymentMethodType = "alfamart"
	PMTIndomaret      PaymentMethodType = "indomaret"
	PMTGiftCard       PaymentMethodType = "gift_card"
	PMTGivex          PaymentMethodType = "givex"
	PMTKnet           PaymentMethodType = "knet"
	PMTBenefit        PaymentMethodType = "benefit"
	PMTSwish          PaymentMethodType = "swish"
	PMTTwint          PaymentMethodType = "twint"
	PMTVipps          PaymentMethodType = "vipps"
	PMTDana           PaymentMethodType = "dana"
	PMTAlipay         PaymentMethodType = "ali_pay"
	PMTAlipayHK       PaymentMethodType = "ali_pay_hk"
	PMTMobilePay      PaymentMethodType = "mobile_pay"
	PMTPermataBankTransfer PaymentMethodType = "permata_bank_transfer"
	PMTBcaBankTransfer PaymentMethodType = "bca_bank_transfer"
)

// Card is raw card data collected for the attempt.
type Card struct {
	Number      string
	ExpMonth    string
	ExpYear     string
	HolderName  string
	CVC         string
	Network     CardNetwork
}

// WalletKind enumerates wallet schemes.
type WalletKind string

const (
	WalletGooglePay WalletKind = "google_pay"
	WalletApplePay  WalletKind = "apple_pay"
	WalletPaypal    WalletKind = "paypal"
	WalletGcash     WalletKind = "gcash"
	WalletGoPay     WalletKind = "go_pay"
	WalletKakaoPay  WalletKind = "kakao_pay"
	WalletMomo      WalletKind = "momo"
	WalletTouchNGo  WalletKind = "touch_n_go"
	WalletWeChatPay WalletKind = "we_chat_pay"
	WalletMbWay     WalletKind = "mb_way"
	WalletSamsungPay WalletKind = "samsung_pay"
	WalletAliPay    WalletKind = "ali_pay"
	WalletAliPayHK  WalletKind = "ali_pay_hk"
	WalletDana      WalletKind = "dana"
	WalletMobilePay WalletKind = "mobile_pay"
	WalletTwint     WalletKind = "twint"
	WalletVipps     WalletKind = "vipps"
	WalletSwish     WalletKind = "swish"
)

// WalletData carries the scheme plus whichever token payload the wallet
// provides. GooglePay/ApplePay deliver an encrypted token; redirect wallets
// carry at most a phone number.
type WalletData struct {
	Kind        WalletKind
	Token       string // encrypted payment token (Google Pay / Apple Pay)
	PhoneNumber string // Momo / MB WAY style wallets
}

// PayLaterKind enumerates buy-now-pay-later schemes.
type PayLaterKind string

const (
	PayLaterKlarna   PayLaterKind = "klarna"
	PayLaterAffirm   PayLaterKind = "affirm"
	PayLaterAfterpay PayLaterKind = "afterpay_clearpay"
	PayLaterAlma     PayLaterKind = "alma"
	PayLaterAtome    PayLaterKind = "atome"
	PayLaterWalley   PayLaterKind = "walley"
	PayLaterPayBright PayLaterKind = "pay_bright"
)

type PayLaterData struct {
	Kind PayLaterKind
}

// BankRedirectKind enumerates redirect-based bank payment schemes.
type BankRedirectKind string

const (
	BankRedirectIdeal          BankRedirectKind = "ideal"
	BankRedirectEps            BankRedirectKind = "eps"
	BankRedirectBlik           BankRedirectKind = "blik"
	BankRedirectTrustly        BankRedirectKind = "trustly"
	BankRedirectBancontactCard BankRedirectKind = "bancontact_card"
	BankRedirectBizum          BankRedirectKind = "bizum"
	BankRedirectOnlineBankingFinland BankRedirectKind = "online_banking_finland"
	BankRedirectOnlineBankingPoland  BankRedirectKind = "online_banking_poland"
	BankRedirectOpenBankingUK  BankRedirectKind = "open_banking_uk"
	BankRedirectSofort         BankRedirectKind = "sofort"
	BankRedirectGiropay        BankRedirectKind = "giropay"
)

type BankRedirectData struct {
	Kind     BankRedirectKind
	BankName string // issuer hint for schemes that pre-select a bank (EPS, online banking)
	BlikCode string
	// Bancontact falls back to card-style fields.
	CardNumber   string
	CardExpMonth string
	CardExpYear  string
}

// BankDebitKind enumerates direct-debit schemes.
type BankDebitKind string

const (
	BankDebitAch  BankDebitKind = "ach"
	BankDebitSepa BankDebitKind = "sepa"
	BankDebitBacs BankDebitKind = "bacs"
	BankDebitBecs BankDebitKind = "becs"
)

type BankDebitData struct {
	Kind          BankDebitKind
	AccountNumber string
	RoutingNumber string // ACH
	SortCode      string // Bacs
	BSBNumber     string // Becs
	IBAN          string // SEPA
}

// BankTransferKind enumerates push bank-transfer schemes.
type BankTransferKind string

const (
	BankTransferPix     BankTransferKind = "pix"
	BankTransferPermata BankTransferKind = "permata"
	BankTransferBca     BankTransferKind = "bca"
	BankTransferBni     BankTransferKind = "bni"
	BankTransferBri     BankTransferKind = "bri"
	BankTransferCimb    BankTransferKind = "cimb"
	BankTransferDanamon BankTransferKind = "danamon"
	BankTransferMandiri BankTransferKind = "mandiri"
)

type BankTransferData struct {
	Kind BankTransferKind
}

// CardRedirectKind enumerates card flows completed out-of-band.
type CardRedirectKind string

const (
	CardRedirectKnet    CardRedirectKind = "knet"
	CardRedirectBenefit CardRedirectKind = "benefit"
	CardRedirectMomoAtm CardRedirectKind = "momo_atm"
)

type CardRedirectData struct {
	Kind CardRedirectKind
}

// VoucherKind enumerates present-to-shopper cash voucher schemes.
type VoucherKind string

const (
	VoucherBoleto      VoucherKind = "boleto"
	VoucherOxxo        VoucherKind = "oxxo"
	VoucherAlfamart    VoucherKind = "alfamart"
	VoucherIndomaret   VoucherKind = "indomaret"
	VoucherSevenEleven VoucherKind = "seven_eleven"
	VoucherLawson      VoucherKind = "lawson"
	VoucherMiniStop    VoucherKind = "mini_stop"
)

type VoucherData struct {
	Kind                 VoucherKind
	SocialSecurityNumber string // Boleto CPF/CNPJ
}

type GiftCardData struct {
	Number string
	CVC    string
	Scheme string // e.g. "givex"
}

// NetworkTokenData is a network-tokenized card plus its cryptogram.
type NetworkTokenData struct {
	Token      string
	ExpMonth   string
	ExpYear    string
	Cryptogram string
	ECI        string
	Network    CardNetwork
}

// CardNetworkTxIDData addresses a recurring charge by card details plus the
// network transaction id of the original payment.
type CardNetworkTxIDData struct {
	Number               string
	ExpMonth             string
	ExpYear              string
	NetworkTransactionID string
	Network              CardNetwork
}

// MandatePaymentData charges a previously stored mandate; the reference
// itself travels on the attempt.
type MandatePaymentData struct{}
