package adyen

import (
	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// Amount is Adyen's minor-unit money object.
type Amount struct {
	Currency string           `json:"currency"`
	Value    models.MinorUnit `json:"value"`
}

type shopperInteraction string

const (
	interactionEcommerce shopperInteraction = "Ecommerce"
	interactionContAuth  shopperInteraction = "ContAuth"
)

type recurringModel string

const recurringUnscheduledCardOnFile recurringModel = "UnscheduledCardOnFile"

// additionalData carries the flag-style extras Adyen reads out of band.
type additionalData struct {
	AuthorisationType        string         `json:"authorisationType,omitempty"`
	ManualCapture            string         `json:"manualCapture,omitempty"`
	ExecuteThreeD            string         `json:"executeThreeD,omitempty"`
	RecurringProcessingModel recurringModel `json:"recurringProcessingModel,omitempty"`
	RecurringDetailReference string         `json:"recurring.recurringDetailReference,omitempty"`
	RecurringShopperReference string        `json:"recurring.shopperReference,omitempty"`
	NetworkTxReference       string         `json:"networkTxReference,omitempty"`
	RefusalReasonRaw         string         `json:"refusalReasonRaw,omitempty"`
	RefusalCodeRaw           string         `json:"refusalCodeRaw,omitempty"`
}

type shopperName struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type address struct {
	City              string `json:"city"`
	Country           string `json:"country"`
	HouseNumberOrName string `json:"houseNumberOrName"`
	PostalCode        string `json:"postalCode"`
	StateOrProvince   string `json:"stateOrProvince,omitempty"`
	Street            string `json:"street,omitempty"`
}

type browserInfo struct {
	UserAgent      string `json:"userAgent"`
	AcceptHeader   string `json:"acceptHeader"`
	Language       string `json:"language"`
	ColorDepth     uint8  `json:"colorDepth"`
	ScreenHeight   uint32 `json:"screenHeight"`
	ScreenWidth    uint32 `json:"screenWidth"`
	TimeZoneOffset int32  `json:"timeZoneOffset"`
	JavaEnabled    bool   `json:"javaEnabled"`
}

type lineItem struct {
	ID                  string           `json:"id,omitempty"`
	Description         string           `json:"description,omitempty"`
	AmountIncludingTax  models.MinorUnit `json:"amountIncludingTax,omitempty"`
	AmountExcludingTax  models.MinorUnit `json:"amountExcludingTax,omitempty"`
	TaxAmount           models.MinorUnit `json:"taxAmount,omitempty"`
	Quantity            uint16           `json:"quantity,omitempty"`
}

type splitData struct {
	Amount      *Amount          `json:"amount,omitempty"`
	SplitType   models.SplitType `json:"type"`
	Account     string           `json:"account,omitempty"`
	Reference   string           `json:"reference"`
	Description string           `json:"description,omitempty"`
}

// paymentMethod is Adyen's polymorphic paymentMethod object. Type is always
// set; the remaining fields are populated per scheme.
type paymentMethod struct {
	Type string `json:"type"`

	// scheme / network token
	Number                  string `json:"number,omitempty"`
	ExpiryMonth             string `json:"expiryMonth,omitempty"`
	ExpiryYear              string `json:"expiryYear,omitempty"`
	CVC                     string `json:"cvc,omitempty"`
	HolderName              string `json:"holderName,omitempty"`
	Brand                   string `json:"brand,omitempty"`
	NetworkPaymentReference string `json:"networkPaymentReference,omitempty"`

	// wallets
	GooglePayToken string `json:"googlePayToken,omitempty"`
	ApplePayToken  string `json:"applePayToken,omitempty"`
	TelephoneNumber string `json:"telephoneNumber,omitempty"`

	// bank redirects
	Issuer   string `json:"issuer,omitempty"`
	BlikCode string `json:"blikCode,omitempty"`

	// direct debit
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	BankLocationID    string `json:"bankLocationId,omitempty"`
	OwnerName         string `json:"ownerName,omitempty"`
	IbanNumber        string `json:"ibanNumber,omitempty"`

	// vouchers / doku
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	ShopperEmail string `json:"shopperEmail,omitempty"`

	// stored mandate
	StoredPaymentMethodID string `json:"storedPaymentMethodId,omitempty"`
}

// paymentRequest is the outbound /payments body.
type paymentRequest struct {
	Amount                   Amount             `json:"amount"`
	MerchantAccount          string             `json:"merchantAccount"`
	PaymentMethod            paymentMethod      `json:"paymentMethod"`
	Reference                string             `json:"reference"`
	ReturnURL                string             `json:"returnUrl"`
	BrowserInfo              *browserInfo       `json:"browserInfo,omitempty"`
	ShopperInteraction       shopperInteraction `json:"shopperInteraction"`
	RecurringProcessingModel recurringModel     `json:"recurringProcessingModel,omitempty"`
	AdditionalData           *additionalData    `json:"additionalData,omitempty"`
	ShopperReference         string             `json:"shopperReference,omitempty"`
	StorePaymentMethod       *bool              `json:"storePaymentMethod,omitempty"`
	ShopperName              *shopperName       `json:"shopperName,omitempty"`
	ShopperIP                string             `json:"shopperIP,omitempty"`
	ShopperLocale            string             `json:"shopperLocale,omitempty"`
	ShopperEmail             string             `json:"shopperEmail,omitempty"`
	ShopperStatement         string             `json:"shopperStatement,omitempty"`
	SocialSecurityNumber     string             `json:"socialSecurityNumber,omitempty"`
	TelephoneNumber          string             `json:"telephoneNumber,omitempty"`
	BillingAddress           *address           `json:"billingAddress,omitempty"`
	DeliveryAddress          *address           `json:"deliveryAddress,omitempty"`
	CountryCode              string             `json:"countryCode,omitempty"`
	LineItems                []lineItem         `json:"lineItems,omitempty"`
	Channel                  string             `json:"channel,omitempty"`
	Splits                   []splitData        `json:"splits,omitempty"`
	Store                    string             `json:"store,omitempty"`
}

type captureRequest struct {
	MerchantAccount string      `json:"merchantAccount"`
	Amount          Amount      `json:"amount"`
	Reference       string      `json:"reference"`
	Splits          []splitData `json:"splits,omitempty"`
	Store           string      `json:"store,omitempty"`
}

type cancelRequest struct {
	MerchantAccount string `json:"merchantAccount"`
	Reference       string `json:"reference"`
}

type refundRequest struct {
	MerchantAccount    string      `json:"merchantAccount"`
	Amount             Amount      `json:"amount"`
	MerchantRefundReason string    `json:"merchantRefundReason,omitempty"`
	Reference          string      `json:"reference"`
	Splits             []splitData `json:"splits,omitempty"`
	Store              string      `json:"store,omitempty"`
}

// cardBrands is the finite canonical-network -> Adyen brand table. Networks
// absent from the table are unsupported and must be reported, never dropped.
var cardBrands = map[models.CardNetwork]string{
	models.NetworkVisa:            "visa",
	models.NetworkMastercard:      "mc",
	models.NetworkAmex:            "amex",
	models.NetworkDiscover:        "discover",
	models.NetworkJCB:             "jcb",
	models.NetworkDinersClub:      "diners",
	models.NetworkUnionPay:        "cup",
	models.NetworkCartesBancaires: "cartebancaire",
	models.NetworkMaestro:         "maestro",
}

func brandFor(network models.CardNetwork) (string, error) {
	if network == "" {
		return "", nil
	}
	brand, ok := cardBrands[network]
	if !ok {
		return "", pkgerrors.NewNotSupported(connectorName, "card network "+string(network))
	}
	return brand, nil
}

// mapPaymentMethod converts one canonical payment method case into Adyen's
// wire object. The switch is exhaustive over every PaymentMethodKind so a
// new canonical case is a visible obligation here.
func mapPaymentMethod(data models.PaymentMethodData, req *ports.AuthorizeRequest) (paymentMethod, error) {
	switch data.Kind() {
	case models.KindCard:
		return mapCard(data.Card)
	case models.KindWallet:
		return mapWallet(data.Wallet, req)
	case models.KindPayLater:
		return mapPayLater(data.PayLater)
	case models.KindBankRedirect:
		return mapBankRedirect(data.BankRedirect)
	case models.KindBankDebit:
		return mapBankDebit(data.BankDebit, req)
	case models.KindBankTransfer:
		return mapBankTransfer(data.BankTransfer, req)
	case models.KindCardRedirect:
		return mapCardRedirect(data.CardRedirect)
	case models.KindVoucher:
		return mapVoucher(data.Voucher, req)
	case models.KindGiftCard:
		return mapGiftCard(data.GiftCard)
	case models.KindNetworkToken:
		return mapNetworkToken(data.NetworkToken)
	case models.KindCardNetworkTxID:
		return mapCardNetworkTxID(data.CardNetworkTxID)
	case models.KindMandatePayment:
		return mapMandatePayment(req)
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(data.Kind()))
}

func mapCard(card *models.Card) (paymentMethod, error) {
	number, err := connectors.RequireString(card.Number, "card.number")
	if err != nil {
		return paymentMethod{}, err
	}
	if err := connectors.CollectMissing(map[string]string{
		"card.exp_month": card.ExpMonth,
		"card.exp_year":  card.ExpYear,
	}); err != nil {
		return paymentMethod{}, err
	}
	brand, err := brandFor(card.Network)
	if err != nil {
		return paymentMethod{}, err
	}
	return paymentMethod{
		Type:        "scheme",
		Number:      number,
		ExpiryMonth: card.ExpMonth,
		ExpiryYear:  card.ExpYear,
		CVC:         card.CVC,
		HolderName:  card.HolderName,
		Brand:       brand,
	}, nil
}

func mapWallet(wallet *models.WalletData, req *ports.AuthorizeRequest) (paymentMethod, error) {
	switch wallet.Kind {
	case models.WalletGooglePay:
		token, err := connectors.RequireString(wallet.Token, "wallet.google_pay.token")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "googlepay", GooglePayToken: token}, nil
	case models.WalletApplePay:
		token, err := connectors.RequireString(wallet.Token, "wallet.apple_pay.token")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "applepay", ApplePayToken: token}, nil
	case models.WalletPaypal:
		return paymentMethod{Type: "paypal"}, nil
	case models.WalletGcash:
		return paymentMethod{Type: "gcash"}, nil
	case models.WalletGoPay:
		return paymentMethod{Type: "gopay_wallet"}, nil
	case models.WalletKakaoPay:
		return paymentMethod{Type: "kakaopay"}, nil
	case models.WalletMomo:
		return paymentMethod{Type: "momo_wallet"}, nil
	case models.WalletTouchNGo:
		return paymentMethod{Type: "touchngo"}, nil
	case models.WalletWeChatPay:
		return paymentMethod{Type: "wechatpayWeb"}, nil
	case models.WalletMbWay:
		phone, err := connectors.RequireString(req.Context.Phone, "context.phone")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "mbway", TelephoneNumber: req.Context.PhoneCountryCode + phone}, nil
	case models.WalletSamsungPay:
		token, err := connectors.RequireString(wallet.Token, "wallet.samsung_pay.token")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "samsungpay", GooglePayToken: token}, nil
	case models.WalletAliPay:
		return paymentMethod{Type: "alipay"}, nil
	case models.WalletAliPayHK:
		return paymentMethod{Type: "alipay_hk"}, nil
	case models.WalletDana:
		return paymentMethod{Type: "dana"}, nil
	case models.WalletMobilePay:
		return paymentMethod{Type: "mobilepay"}, nil
	case models.WalletTwint:
		return paymentMethod{Type: "twint"}, nil
	case models.WalletVipps:
		return paymentMethod{Type: "vipps"}, nil
	case models.WalletSwish:
		return paymentMethod{Type: "swish"}, nil
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(wallet.Kind))
}

func mapPayLater(payLater *models.PayLaterData) (paymentMethod, error) {
	switch payLater.Kind {
	case models.PayLaterKlarna:
		return paymentMethod{Type: "klarna"}, nil
	case models.PayLaterAffirm:
		return paymentMethod{Type: "affirm"}, nil
	case models.PayLaterAfterpay:
		return paymentMethod{Type: "afterpaytouch"}, nil
	case models.PayLaterAlma:
		return paymentMethod{Type: "alma"}, nil
	case models.PayLaterAtome:
		return paymentMethod{Type: "atome"}, nil
	case models.PayLaterWalley:
		return paymentMethod{Type: "walley"}, nil
	case models.PayLaterPayBright:
		return paymentMethod{Type: "paybright"}, nil
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(payLater.Kind))
}

func mapBankRedirect(redirect *models.BankRedirectData) (paymentMethod, error) {
	switch redirect.Kind {
	case models.BankRedirectIdeal:
		return paymentMethod{Type: "ideal"}, nil
	case models.BankRedirectEps:
		issuer, err := connectors.RequireString(redirect.BankName, "bank_redirect.eps.bank_name")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "eps", Issuer: issuer}, nil
	case models.BankRedirectBlik:
		code, err := connectors.RequireString(redirect.BlikCode, "bank_redirect.blik.blik_code")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "blik", BlikCode: code}, nil
	case models.BankRedirectTrustly:
		return paymentMethod{Type: "trustly"}, nil
	case models.BankRedirectBancontactCard:
		if err := connectors.CollectMissing(map[string]string{
			"bank_redirect.bancontact.card_number":    redirect.CardNumber,
			"bank_redirect.bancontact.card_exp_month": redirect.CardExpMonth,
			"bank_redirect.bancontact.card_exp_year":  redirect.CardExpYear,
		}); err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{
			Type:        "scheme",
			Number:      redirect.CardNumber,
			ExpiryMonth: redirect.CardExpMonth,
			ExpiryYear:  redirect.CardExpYear,
			Brand:       "bcmc",
		}, nil
	case models.BankRedirectBizum:
		return paymentMethod{Type: "bizum"}, nil
	case models.BankRedirectOnlineBankingFinland:
		return paymentMethod{Type: "ebanking_FI"}, nil
	case models.BankRedirectOnlineBankingPoland:
		issuer, err := connectors.RequireString(redirect.BankName, "bank_redirect.online_banking_poland.bank_name")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "onlineBanking_PL", Issuer: issuer}, nil
	case models.BankRedirectOpenBankingUK:
		return paymentMethod{Type: "paybybank"}, nil
	case models.BankRedirectSofort, models.BankRedirectGiropay:
		return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(redirect.Kind))
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(redirect.Kind))
}

func mapBankDebit(debit *models.BankDebitData, req *ports.AuthorizeRequest) (paymentMethod, error) {
	ownerName := ""
	if req.Context.Billing != nil {
		ownerName = req.Context.Billing.FullName()
	}
	switch debit.Kind {
	case models.BankDebitAch:
		if err := connectors.CollectMissing(map[string]string{
			"bank_debit.ach.account_number": debit.AccountNumber,
			"bank_debit.ach.routing_number": debit.RoutingNumber,
			"billing.full_name":             ownerName,
		}); err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{
			Type:              "ach",
			BankAccountNumber: debit.AccountNumber,
			BankLocationID:    debit.RoutingNumber,
			OwnerName:         ownerName,
		}, nil
	case models.BankDebitSepa:
		iban, err := connectors.RequireString(debit.IBAN, "bank_debit.sepa.iban")
		if err != nil {
			return paymentMethod{}, err
		}
		owner, err := connectors.RequireString(ownerName, "billing.full_name")
		if err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{Type: "sepadirectdebit", IbanNumber: iban, OwnerName: owner}, nil
	case models.BankDebitBacs:
		if err := connectors.CollectMissing(map[string]string{
			"bank_debit.bacs.account_number": debit.AccountNumber,
			"bank_debit.bacs.sort_code":      debit.SortCode,
			"billing.full_name":              ownerName,
		}); err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{
			Type:              "directdebit_GB",
			BankAccountNumber: debit.AccountNumber,
			BankLocationID:    debit.SortCode,
			OwnerName:         ownerName,
		}, nil
	case models.BankDebitBecs:
		return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(debit.Kind))
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(debit.Kind))
}

func mapBankTransfer(transfer *models.BankTransferData, req *ports.AuthorizeRequest) (paymentMethod, error) {
	switch transfer.Kind {
	case models.BankTransferPix:
		return paymentMethod{Type: "pix"}, nil
	case models.BankTransferPermata, models.BankTransferBca, models.BankTransferBni,
		models.BankTransferBri, models.BankTransferCimb, models.BankTransferDanamon,
		models.BankTransferMandiri:
		return mapDoku(transfer.Kind, req)
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(transfer.Kind))
}

var dokuTypes = map[models.BankTransferKind]string{
	models.BankTransferPermata: "doku_permata_lite_atm",
	models.BankTransferBca:     "doku_bca_va",
	models.BankTransferBni:     "doku_bni_va",
	models.BankTransferBri:     "doku_bri_va",
	models.BankTransferCimb:    "doku_cimb_va",
	models.BankTransferDanamon: "doku_danamon_va",
	models.BankTransferMandiri: "doku_mandiri_va",
}

// mapDoku builds the Doku virtual-account object shared by the Indonesian
// bank transfer schemes; Adyen requires shopper name and email on these.
func mapDoku(kind models.BankTransferKind, req *ports.AuthorizeRequest) (paymentMethod, error) {
	billing := req.Context.Billing
	if billing == nil {
		return paymentMethod{}, pkgerrors.NewMissingRequiredField("billing")
	}
	if err := connectors.CollectMissing(map[string]string{
		"billing.first_name": billing.FirstName,
		"context.email":      req.Context.Email,
	}); err != nil {
		return paymentMethod{}, err
	}
	return paymentMethod{
		Type:         dokuTypes[kind],
		FirstName:    billing.FirstName,
		LastName:     billing.LastName,
		ShopperEmail: req.Context.Email,
	}, nil
}

func mapCardRedirect(redirect *models.CardRedirectData) (paymentMethod, error) {
	switch redirect.Kind {
	case models.CardRedirectKnet:
		return paymentMethod{Type: "knet"}, nil
	case models.CardRedirectBenefit:
		return paymentMethod{Type: "benefit"}, nil
	case models.CardRedirectMomoAtm:
		return paymentMethod{Type: "momo_atm"}, nil
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(redirect.Kind))
}

func mapVoucher(voucher *models.VoucherData, req *ports.AuthorizeRequest) (paymentMethod, error) {
	switch voucher.Kind {
	case models.VoucherBoleto:
		return paymentMethod{Type: "boletobancario"}, nil
	case models.VoucherOxxo:
		return paymentMethod{Type: "oxxo"}, nil
	case models.VoucherAlfamart, models.VoucherIndomaret:
		billing := req.Context.Billing
		if billing == nil {
			return paymentMethod{}, pkgerrors.NewMissingRequiredField("billing")
		}
		pmType := "doku_alfamart"
		if voucher.Kind == models.VoucherIndomaret {
			pmType = "doku_indomaret"
		}
		return paymentMethod{
			Type:         pmType,
			FirstName:    billing.FirstName,
			LastName:     billing.LastName,
			ShopperEmail: req.Context.Email,
		}, nil
	case models.VoucherSevenEleven, models.VoucherLawson, models.VoucherMiniStop:
		jcsType := "econtext_seven_eleven"
		if voucher.Kind != models.VoucherSevenEleven {
			jcsType = "econtext_stores"
		}
		billing := req.Context.Billing
		if billing == nil {
			return paymentMethod{}, pkgerrors.NewMissingRequiredField("billing")
		}
		if err := connectors.CollectMissing(map[string]string{
			"billing.first_name": billing.FirstName,
			"context.email":      req.Context.Email,
			"context.phone":      req.Context.Phone,
		}); err != nil {
			return paymentMethod{}, err
		}
		return paymentMethod{
			Type:            jcsType,
			FirstName:       billing.FirstName,
			LastName:        billing.LastName,
			ShopperEmail:    req.Context.Email,
			TelephoneNumber: req.Context.Phone,
		}, nil
	}
	return paymentMethod{}, pkgerrors.NewNotImplemented(connectorName, string(voucher.Kind))
}

func mapGiftCard(giftCard *models.GiftCardData) (paymentMethod, error) {
	number, err := connectors.RequireString(giftCard.Number, "gift_card.number")
	if err != nil {
		return paymentMethod{}, err
	}
	if giftCard.Scheme == "givex" {
		return paymentMethod{Type: "givex", Number: number, CVC: giftCard.CVC}, nil
	}
	return paymentMethod{Type: "giftcard", Number: number, CVC: giftCard.CVC}, nil
}

func mapNetworkToken(token *models.NetworkTokenData) (paymentMethod, error) {
	if err := connectors.CollectMissing(map[string]string{
		"network_token.token":      token.Token,
		"network_token.exp_month":  token.ExpMonth,
		"network_token.exp_year":   token.ExpYear,
		"network_token.cryptogram": token.Cryptogram,
	}); err != nil {
		return paymentMethod{}, err
	}
	brand, err := brandFor(token.Network)
	if err != nil {
		return paymentMethod{}, err
	}
	return paymentMethod{
		Type:        "networkToken",
		Number:      token.Token,
		ExpiryMonth: token.ExpMonth,
		ExpiryYear:  token.ExpYear,
		Brand:       brand,
	}, nil
}

func mapCardNetworkTxID(data *models.CardNetworkTxIDData) (paymentMethod, error) {
	if err := connectors.CollectMissing(map[string]string{
		"card.number":                 data.Number,
		"card.exp_month":              data.ExpMonth,
		"card.exp_year":               data.ExpYear,
		"card.network_transaction_id": data.NetworkTransactionID,
	}); err != nil {
		return paymentMethod{}, err
	}
	// Brand is mandatory when charging by network transaction id.
	if data.Network == "" {
		return paymentMethod{}, pkgerrors.NewMissingRequiredField("card.network")
	}
	brand, err := brandFor(data.Network)
	if err != nil {
		return paymentMethod{}, err
	}
	return paymentMethod{
		Type:                    "scheme",
		Number:                  data.Number,
		ExpiryMonth:             data.ExpMonth,
		ExpiryYear:              data.ExpYear,
		Brand:                   brand,
		NetworkPaymentReference: data.NetworkTransactionID,
	}, nil
}

func mapMandatePayment(req *ports.AuthorizeRequest) (paymentMethod, error) {
	if req.Mandate == nil || req.Mandate.ConnectorMandateID == "" {
		return paymentMethod{}, pkgerrors.NewMissingRequiredField("mandate.connector_mandate_id")
	}
	return paymentMethod{Type: "scheme", StoredPaymentMethodID: req.Mandate.ConnectorMandateID}, nil
}

// recurringDetails is the outcome of the recurring decision table:
// (model, storePaymentMethod, shopperReference).
type recurringDetails struct {
	Model              recurringModel
	StorePaymentMethod *bool
	ShopperReference   string
}

// getRecurringProcessingModel implements the decision table keyed on
// (setup_future_usage, off_session). When an existing mandate is present the
// mandate path is taken instead and this table is not consulted.
func getRecurringProcessingModel(attempt *models.PaymentAttempt) recurringDetails {
	switch {
	case attempt.SetupFutureUsage == models.FutureUsageOffSession:
		store := attempt.IsMandatePayment()
		return recurringDetails{
			Model:              recurringUnscheduledCardOnFile,
			StorePaymentMethod: &store,
			ShopperReference:   attempt.ShopperReference(),
		}
	case attempt.OffSession:
		return recurringDetails{
			Model:            recurringUnscheduledCardOnFile,
			ShopperReference: attempt.ShopperReference(),
		}
	}
	return recurringDetails{}
}

// browserFingerprintWallets are wallet types that need device data even
// outside 3DS.
var browserFingerprintWallets = map[models.PaymentMethodType]bool{
	models.PMTGooglePay: true,
	models.PMTGoPay:     true,
}

// getBrowserInfo attaches device data only when the flow requires it: 3DS
// auth, card, bank redirect, or a fingerprinting wallet. Adyen rejects
// extraneous browser data on other methods.
func getBrowserInfo(req *ports.AuthorizeRequest) (*browserInfo, error) {
	kind := req.PaymentMethod.Kind()
	needed := req.Attempt.AuthType == models.AuthTypeThreeDS ||
		kind == models.KindCard ||
		kind == models.KindBankRedirect ||
		browserFingerprintWallets[req.Context.PaymentMethodType]
	if !needed {
		return nil, nil
	}
	info := req.Context.Browser
	if info == nil {
		return nil, pkgerrors.NewMissingRequiredField("context.browser")
	}
	if err := connectors.CollectMissing(map[string]string{
		"browser.user_agent":    info.UserAgent,
		"browser.accept_header": info.AcceptHeader,
		"browser.language":      info.Language,
	}); err != nil {
		return nil, err
	}
	return &browserInfo{
		UserAgent:      info.UserAgent,
		AcceptHeader:   info.AcceptHeader,
		Language:       info.Language,
		ColorDepth:     info.ColorDepth,
		ScreenHeight:   info.ScreenHeight,
		ScreenWidth:    info.ScreenWidth,
		TimeZoneOffset: info.TimeZoneOffset,
		JavaEnabled:    info.JavaEnabled,
	}, nil
}

func getAdditionalData(attempt *models.PaymentAttempt) *additionalData {
	data := &additionalData{}
	populated := false
	if attempt.CaptureMethod.IsManual() {
		data.AuthorisationType = "PreAuth"
		data.ManualCapture = "true"
		populated = true
	}
	if attempt.AuthType == models.AuthTypeThreeDS {
		data.ExecuteThreeD = "true"
		populated = true
	}
	if !populated {
		return nil
	}
	return data
}

func mapAddress(a *models.Address) *address {
	if a == nil {
		return nil
	}
	houseNumber := a.Line1
	street := a.Line2
	if houseNumber == "" {
		houseNumber = "NA"
	}
	return &address{
		City:              a.City,
		Country:           a.Country,
		HouseNumberOrName: houseNumber,
		PostalCode:        a.Zip,
		StateOrProvince:   a.State,
		Street:            street,
	}
}

func mapLineItems(items []ports.LineItem) []lineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]lineItem, 0, len(items))
	for _, item := range items {
		out = append(out, lineItem{
			ID:                 item.ID,
			Description:        item.Description,
			AmountIncludingTax: item.AmountMinor,
			AmountExcludingTax: item.AmountMinor - item.TaxMinor,
			TaxAmount:          item.TaxMinor,
			Quantity:           item.Quantity,
		})
	}
	return out
}

// mapSplits translates canonical split instructions 1:1 into Adyen's split
// schema; the same translation runs on authorize, capture, and refund.
func mapSplits(charges *models.ChargeData, currency string) ([]splitData, string) {
	if charges == nil || charges.IsZero() {
		return nil, ""
	}
	splits := make([]splitData, 0, len(charges.Splits))
	for _, item := range charges.Splits {
		split := splitData{
			SplitType:   item.SplitType,
			Account:     item.Account,
			Reference:   item.Reference,
			Description: item.Description,
		}
		if item.AmountMinor != 0 {
			split.Amount = &Amount{Currency: currency, Value: item.AmountMinor}
		}
		splits = append(splits, split)
	}
	return splits, charges.Store
}

// buildPaymentRequest assembles the full /payments body from the canonical
// attempt plus the mapped payment method.
func buildPaymentRequest(req *ports.AuthorizeRequest, merchantAccount string) (*paymentRequest, error) {
	method, err := mapPaymentMethod(req.PaymentMethod, req)
	if err != nil {
		return nil, err
	}
	browser, err := getBrowserInfo(req)
	if err != nil {
		return nil, err
	}
	attempt := req.Attempt
	interaction := interactionEcommerce
	if attempt.OffSession {
		interaction = interactionContAuth
	}
	recurring := getRecurringProcessingModel(attempt)
	splits, store := mapSplits(req.Charges, attempt.Currency)

	out := &paymentRequest{
		Amount:                   Amount{Currency: attempt.Currency, Value: attempt.AmountMinor},
		MerchantAccount:          merchantAccount,
		PaymentMethod:            method,
		Reference:                attempt.ID,
		ReturnURL:                attempt.ReturnURL,
		BrowserInfo:              browser,
		ShopperInteraction:       interaction,
		RecurringProcessingModel: recurring.Model,
		AdditionalData:           getAdditionalData(attempt),
		ShopperReference:         recurring.ShopperReference,
		StorePaymentMethod:       recurring.StorePaymentMethod,
		ShopperEmail:             req.Context.Email,
		ShopperLocale:            req.Context.Locale,
		ShopperStatement:         attempt.StatementDescriptor,
		BillingAddress:           mapAddress(req.Context.Billing),
		DeliveryAddress:          mapAddress(req.Context.Shipping),
		LineItems:                mapLineItems(req.LineItems),
		Channel:                  channelFor(req.PaymentMethod),
		Splits:                   splits,
		Store:                    store,
	}
	if billing := req.Context.Billing; billing != nil {
		out.ShopperName = &shopperName{FirstName: billing.FirstName, LastName: billing.LastName}
		out.CountryCode = billing.Country
	}
	if browser != nil && req.Context.Browser != nil {
		out.ShopperIP = req.Context.Browser.IPAddress
	}
	if voucher := req.PaymentMethod.Voucher; voucher != nil && voucher.SocialSecurityNumber != "" {
		out.SocialSecurityNumber = voucher.SocialSecurityNumber
	}
	// Charging by network transaction id rides the reference through
	// additionalData as well.
	if data := req.PaymentMethod.CardNetworkTxID; data != nil {
		if out.AdditionalData == nil {
			out.AdditionalData = &additionalData{}
		}
		out.AdditionalData.NetworkTxReference = data.NetworkTransactionID
	}
	if out.AdditionalData != nil {
		out.AdditionalData.RecurringProcessingModel = recurring.Model
	}
	return out, nil
}

// channelFor reports "Web" for the methods Adyen requires an explicit
// channel on (pay-later and some redirects).
func channelFor(data models.PaymentMethodData) string {
	switch data.Kind() {
	case models.KindPayLater, models.KindCardRedirect:
		return "Web"
	}
	return ""
}
