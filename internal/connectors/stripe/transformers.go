package stripe

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// Stripe speaks form-encoded requests: nested objects become bracketed
// keys (payment_method_data[card][number]=...). Everything below builds
// url.Values, never JSON.

func setAmount(form url.Values, amount models.MinorUnit, currency string) {
	form.Set("amount", strconv.FormatInt(int64(amount), 10))
	form.Set("currency", currency)
}

// mapPaymentMethodData writes payment_method_data + payment_method_types
// for one canonical case. Exhaustive over PaymentMethodKind.
func mapPaymentMethodData(form url.Values, data models.PaymentMethodData, req *ports.AuthorizeRequest) error {
	switch data.Kind() {
	case models.KindCard:
		return mapCard(form, data.Card)
	case models.KindWallet:
		return mapWallet(form, data.Wallet)
	case models.KindPayLater:
		return mapPayLater(form, data.PayLater, req)
	case models.KindBankRedirect:
		return mapBankRedirect(form, data.BankRedirect, req)
	case models.KindBankDebit:
		return mapBankDebit(form, data.BankDebit, req)
	case models.KindBankTransfer:
		return mapBankTransfer(form, data.BankTransfer)
	case models.KindCardRedirect:
		return pkgerrors.NewNotImplemented(connectorName, string(data.CardRedirect.Kind))
	case models.KindVoucher:
		return mapVoucher(form, data.Voucher, req)
	case models.KindGiftCard:
		return pkgerrors.NewNotImplemented(connectorName, "gift_card")
	case models.KindNetworkToken:
		return pkgerrors.NewNotImplemented(connectorName, "network_token")
	case models.KindCardNetworkTxID:
		return mapCardNetworkTxID(form, data.CardNetworkTxID)
	case models.KindMandatePayment:
		return mapMandatePayment(form, req)
	}
	return pkgerrors.NewNotImplemented(connectorName, string(data.Kind()))
}

// cardNetworks maps canonical networks onto Stripe's preferred-network
// vocabulary; unsupported networks fail rather than silently dropping.
var cardNetworks = map[models.CardNetwork]string{
	models.NetworkVisa:            "visa",
	models.NetworkMastercard:      "mastercard",
	models.NetworkAmex:            "amex",
	models.NetworkDiscover:        "discover",
	models.NetworkJCB:             "jcb",
	models.NetworkDinersClub:      "diners",
	models.NetworkUnionPay:        "unionpay",
	models.NetworkCartesBancaires: "cartes_bancaires",
}

func mapCard(form url.Values, card *models.Card) error {
	number, err := connectors.RequireString(card.Number, "card.number")
	if err != nil {
		return err
	}
	if err := connectors.CollectMissing(map[string]string{
		"card.exp_month": card.ExpMonth,
		"card.exp_year":  card.ExpYear,
	}); err != nil {
		return err
	}
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", number)
	form.Set("payment_method_data[card][exp_month]", card.ExpMonth)
	form.Set("payment_method_data[card][exp_year]", card.ExpYear)
	if card.CVC != "" {
		form.Set("payment_method_data[card][cvc]", card.CVC)
	}
	if card.Network != "" {
		network, ok := cardNetworks[card.Network]
		if !ok {
			return pkgerrors.NewNotSupported(connectorName, "card network "+string(card.Network))
		}
		form.Set("payment_method_options[card][network]", network)
	}
	return nil
}

func mapWallet(form url.Values, wallet *models.WalletData) error {
	switch wallet.Kind {
	case models.WalletApplePay:
		token, err := connectors.RequireString(wallet.Token, "wallet.apple_pay.token")
		if err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "card")
		form.Set("payment_method_data[card][token]", token)
		return nil
	case models.WalletGooglePay:
		token, err := connectors.RequireString(wallet.Token, "wallet.google_pay.token")
		if err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "card")
		form.Set("payment_method_data[card][token]", token)
		return nil
	case models.WalletWeChatPay:
		form.Set("payment_method_data[type]", "wechat_pay")
		form.Set("payment_method_options[wechat_pay][client]", "web")
		return nil
	case models.WalletAliPay:
		form.Set("payment_method_data[type]", "alipay")
		return nil
	}
	return pkgerrors.NewNotImplemented(connectorName, string(wallet.Kind))
}

func mapPayLater(form url.Values, payLater *models.PayLaterData, req *ports.AuthorizeRequest) error {
	email := req.Context.Email
	billing := req.Context.Billing
	switch payLater.Kind {
	case models.PayLaterKlarna:
		if billing == nil || billing.Country == "" {
			return pkgerrors.NewMissingRequiredField("billing.country")
		}
		if _, err := connectors.RequireString(email, "context.email"); err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "klarna")
		form.Set("payment_method_data[billing_details][email]", email)
		form.Set("payment_method_data[billing_details][address][country]", billing.Country)
		return nil
	case models.PayLaterAffirm:
		form.Set("payment_method_data[type]", "affirm")
		return nil
	case models.PayLaterAfterpay:
		if _, err := connectors.RequireString(email, "context.email"); err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "afterpay_clearpay")
		form.Set("payment_method_data[billing_details][email]", email)
		return nil
	}
	return pkgerrors.NewNotImplemented(connectorName, string(payLater.Kind))
}

func mapBankRedirect(form url.Values, redirect *models.BankRedirectData, req *ports.AuthorizeRequest) error {
	switch redirect.Kind {
	case models.BankRedirectIdeal:
		form.Set("payment_method_data[type]", "ideal")
		if redirect.BankName != "" {
			form.Set("payment_method_data[ideal][bank]", redirect.BankName)
		}
		return nil
	case models.BankRedirectEps:
		form.Set("payment_method_data[type]", "eps")
		if redirect.BankName != "" {
			form.Set("payment_method_data[eps][bank]", redirect.BankName)
		}
		return nil
	case models.BankRedirectSofort:
		billing := req.Context.Billing
		if billing == nil || billing.Country == "" {
			return pkgerrors.NewMissingRequiredField("billing.country")
		}
		form.Set("payment_method_data[type]", "sofort")
		form.Set("payment_method_data[sofort][country]", billing.Country)
		return nil
	case models.BankRedirectGiropay:
		form.Set("payment_method_data[type]", "giropay")
		return nil
	case models.BankRedirectBancontactCard:
		form.Set("payment_method_data[type]", "bancontact")
		return nil
	}
	return pkgerrors.NewNotImplemented(connectorName, string(redirect.Kind))
}

func billingName(req *ports.AuthorizeRequest) (string, error) {
	if req.Context.Billing == nil {
		return "", pkgerrors.NewMissingRequiredField("billing.full_name")
	}
	return connectors.RequireString(req.Context.Billing.FullName(), "billing.full_name")
}

func mapBankDebit(form url.Values, debit *models.BankDebitData, req *ports.AuthorizeRequest) error {
	name, err := billingName(req)
	if err != nil {
		return err
	}
	switch debit.Kind {
	case models.BankDebitAch:
		if err := connectors.CollectMissing(map[string]string{
			"bank_debit.ach.account_number": debit.AccountNumber,
			"bank_debit.ach.routing_number": debit.RoutingNumber,
		}); err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "us_bank_account")
		form.Set("payment_method_data[us_bank_account][account_number]", debit.AccountNumber)
		form.Set("payment_method_data[us_bank_account][routing_number]", debit.RoutingNumber)
		form.Set("payment_method_data[us_bank_account][account_holder_type]", "individual")
		form.Set("payment_method_data[billing_details][name]", name)
		return nil
	case models.BankDebitSepa:
		iban, err := connectors.RequireString(debit.IBAN, "bank_debit.sepa.iban")
		if err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "sepa_debit")
		form.Set("payment_method_data[sepa_debit][iban]", iban)
		form.Set("payment_method_data[billing_details][name]", name)
		return nil
	case models.BankDebitBecs:
		if err := connectors.CollectMissing(map[string]string{
			"bank_debit.becs.account_number": debit.AccountNumber,
			"bank_debit.becs.bsb_number":     debit.BSBNumber,
		}); err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "au_becs_debit")
		form.Set("payment_method_data[au_becs_debit][account_number]", debit.AccountNumber)
		form.Set("payment_method_data[au_becs_debit][bsb_number]", debit.BSBNumber)
		form.Set("payment_method_data[billing_details][name]", name)
		return nil
	case models.BankDebitBacs:
		if err := connectors.CollectMissing(map[string]string{
			"bank_debit.bacs.account_number": debit.AccountNumber,
			"bank_debit.bacs.sort_code":      debit.SortCode,
		}); err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "bacs_debit")
		form.Set("payment_method_data[bacs_debit][account_number]", debit.AccountNumber)
		form.Set("payment_method_data[bacs_debit][sort_code]", debit.SortCode)
		form.Set("payment_method_data[billing_details][name]", name)
		return nil
	}
	return pkgerrors.NewNotImplemented(connectorName, string(debit.Kind))
}

func mapBankTransfer(form url.Values, transfer *models.BankTransferData) error {
	switch transfer.Kind {
	case models.BankTransferPix:
		return pkgerrors.NewNotImplemented(connectorName, "pix")
	}
	return pkgerrors.NewNotImplemented(connectorName, string(transfer.Kind))
}

func mapVoucher(form url.Values, voucher *models.VoucherData, req *ports.AuthorizeRequest) error {
	switch voucher.Kind {
	case models.VoucherBoleto:
		taxID, err := connectors.RequireString(voucher.SocialSecurityNumber, "voucher.boleto.social_security_number")
		if err != nil {
			return err
		}
		form.Set("payment_method_data[type]", "boleto")
		form.Set("payment_method_data[boleto][tax_id]", taxID)
		return nil
	case models.VoucherOxxo:
		form.Set("payment_method_data[type]", "oxxo")
		return nil
	}
	return pkgerrors.NewNotImplemented(connectorName, string(voucher.Kind))
}

func mapCardNetworkTxID(form url.Values, data *models.CardNetworkTxIDData) error {
	if err := connectors.CollectMissing(map[string]string{
		"card.number":                 data.Number,
		"card.exp_month":              data.ExpMonth,
		"card.exp_year":               data.ExpYear,
		"card.network_transaction_id": data.NetworkTransactionID,
	}); err != nil {
		return err
	}
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", data.Number)
	form.Set("payment_method_data[card][exp_month]", data.ExpMonth)
	form.Set("payment_method_data[card][exp_year]", data.ExpYear)
	form.Set("payment_method_options[card][mit_exemption][network_transaction_id]", data.NetworkTransactionID)
	form.Set("off_session", "true")
	return nil
}

func mapMandatePayment(form url.Values, req *ports.AuthorizeRequest) error {
	if req.Mandate == nil || req.Mandate.ConnectorMandateID == "" {
		return pkgerrors.NewMissingRequiredField("mandate.connector_mandate_id")
	}
	form.Set("payment_method", req.Mandate.ConnectorMandateID)
	form.Set("off_session", "true")
	form.Set("confirm", "true")
	return nil
}

// buildPaymentIntent assembles the /v1/payment_intents form body.
func buildPaymentIntent(req *ports.AuthorizeRequest) (url.Values, error) {
	form := url.Values{}
	attempt := req.Attempt
	setAmount(form, attempt.AmountMinor, attempt.Currency)
	form.Set("confirm", "true")
	if attempt.CaptureMethod.IsManual() {
		form.Set("capture_method", "manual")
	}
	if attempt.ReturnURL != "" {
		form.Set("return_url", attempt.ReturnURL)
	}
	if attempt.StatementDescriptor != "" {
		form.Set("statement_descriptor", attempt.StatementDescriptor)
	}
	form.Set("metadata[order_id]", attempt.OrderID)

	if err := mapPaymentMethodData(form, req.PaymentMethod, req); err != nil {
		return nil, err
	}

	// Recurring decision table: setup_future_usage=off_session stores the
	// method; a pure off-session charge rides the mandate instead.
	if attempt.SetupFutureUsage == models.FutureUsageOffSession && attempt.MandateID == "" {
		form.Set("setup_future_usage", "off_session")
	}

	if billing := req.Context.Billing; billing != nil && req.PaymentMethod.Kind() == models.KindCard {
		form.Set("payment_method_data[billing_details][name]", billing.FullName())
		if billing.Country != "" {
			form.Set("payment_method_data[billing_details][address][country]", billing.Country)
		}
		if billing.Zip != "" {
			form.Set("payment_method_data[billing_details][address][postal_code]", billing.Zip)
		}
	}
	if req.Context.Email != "" && !form.Has("payment_method_data[billing_details][email]") {
		form.Set("payment_method_data[billing_details][email]", req.Context.Email)
	}
	if shipping := req.Context.Shipping; shipping != nil {
		form.Set("shipping[name]", shipping.FullName())
		form.Set("shipping[address][line1]", shipping.Line1)
		form.Set("shipping[address][city]", shipping.City)
		form.Set("shipping[address][country]", shipping.Country)
		form.Set("shipping[address][postal_code]", shipping.Zip)
	}

	// Split payments translate into destination charges on the connected
	// account; the same fields ride capture and refund requests.
	if req.Charges != nil && !req.Charges.IsZero() {
		applySplits(form, req.Charges)
	}

	form.Set("expand[0]", "latest_charge")
	return form, nil
}

// applySplits writes Stripe's transfer_data equivalent of the canonical
// split instructions. Stripe supports a single destination split; more than
// one destination account cannot be expressed.
func applySplits(form url.Values, charges *models.ChargeData) {
	for _, split := range charges.Splits {
		if split.Account == "" {
			continue
		}
		form.Set("transfer_data[destination]", split.Account)
		if split.AmountMinor != 0 {
			form.Set("transfer_data[amount]", strconv.FormatInt(int64(split.AmountMinor), 10))
		}
		form.Set("transfer_group", split.Reference)
		break
	}
	if charges.Store != "" {
		form.Set("on_behalf_of", charges.Store)
	}
}

func buildCapture(req *ports.CaptureRequest) url.Values {
	form := url.Values{}
	form.Set("amount_to_capture", strconv.FormatInt(int64(req.AmountMinor), 10))
	if req.Charges != nil && !req.Charges.IsZero() {
		applySplits(form, req.Charges)
	}
	return form
}

func buildRefund(req *ports.RefundRequest) url.Values {
	form := url.Values{}
	form.Set("payment_intent", req.ConnectorTransactionID)
	form.Set("amount", strconv.FormatInt(int64(req.AmountMinor), 10))
	if req.Reason != "" {
		form.Set("reason", req.Reason)
	}
	form.Set("metadata[refund_id]", req.RefundID)
	if req.Charges != nil && !req.Charges.IsZero() {
		form.Set("reverse_transfer", "true")
	}
	return form
}

func buildEvidence(req *ports.DisputeRequest) (url.Values, error) {
	if len(req.Evidence) == 0 {
		return nil, pkgerrors.NewMissingRequiredField("dispute.evidence")
	}
	form := url.Values{}
	for _, file := range req.Evidence {
		// Stripe evidence fields are named slots, not attachments; the file
		// name selects the slot.
		form.Set(fmt.Sprintf("evidence[%s]", file.Name), string(file.Content))
	}
	form.Set("submit", "true")
	return form, nil
}
