package bofa

import (
	"github.com/kevin07696/payment-connectors/internal/connectors"
	"github.com/kevin07696/payment-connectors/internal/domain/models"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// Bank of America rides the CyberSource payments platform: JSON bodies,
// decimal major-unit amounts, and numeric card-type codes.

type amountDetails struct {
	TotalAmount string `json:"totalAmount"`
	Currency    string `json:"currency"`
}

type billTo struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Address1           string `json:"address1"`
	Locality           string `json:"locality"`
	AdministrativeArea string `json:"administrativeArea,omitempty"`
	PostalCode         string `json:"postalCode"`
	Country            string `json:"country"`
	Email              string `json:"email"`
}

type orderInformation struct {
	AmountDetails amountDetails `json:"amountDetails"`
	BillTo        *billTo       `json:"billTo,omitempty"`
}

type cardInformation struct {
	Number          string `json:"number"`
	ExpirationMonth string `json:"expirationMonth"`
	ExpirationYear  string `json:"expirationYear"`
	SecurityCode    string `json:"securityCode,omitempty"`
	Type            string `json:"type,omitempty"`
}

// fluidData carries an encrypted wallet token payload.
type fluidData struct {
	Value string `json:"value"`
}

type paymentInformation struct {
	Card      *cardInformation `json:"card,omitempty"`
	FluidData *fluidData       `json:"fluidData,omitempty"`
}

type processingInformation struct {
	Capture           bool     `json:"capture"`
	CommerceIndicator string   `json:"commerceIndicator"`
	PaymentSolution   string   `json:"paymentSolution,omitempty"`
	ActionList        []string `json:"actionList,omitempty"`
}

type clientReferenceInformation struct {
	Code string `json:"code"`
}

// paymentsRequest is the /pts/v2/payments body.
type paymentsRequest struct {
	ProcessingInformation      processingInformation      `json:"processingInformation"`
	PaymentInformation         paymentInformation         `json:"paymentInformation"`
	OrderInformation           orderInformation           `json:"orderInformation"`
	ClientReferenceInformation clientReferenceInformation `json:"clientReferenceInformation"`
}

type captureRequest struct {
	OrderInformation           orderInformation           `json:"orderInformation"`
	ClientReferenceInformation clientReferenceInformation `json:"clientReferenceInformation"`
}

type voidRequest struct {
	ClientReferenceInformation clientReferenceInformation `json:"clientReferenceInformation"`
}

type refundRequest struct {
	OrderInformation           orderInformation           `json:"orderInformation"`
	ClientReferenceInformation clientReferenceInformation `json:"clientReferenceInformation"`
}

// cardTypes maps canonical networks onto CyberSource's numeric card-type
// codes. Networks outside the table are sent without a type; the platform
// infers it from the BIN.
var cardTypes = map[models.CardNetwork]string{
	models.NetworkVisa:            "001",
	models.NetworkMastercard:      "002",
	models.NetworkAmex:            "003",
	models.NetworkDiscover:        "004",
	models.NetworkDinersClub:      "005",
	models.NetworkCartesBancaires: "006",
	models.NetworkJCB:             "007",
	models.NetworkMaestro:         "042",
	models.NetworkUnionPay:        "062",
}

// buildBillTo validates and maps the billing address. The platform rejects
// authorizations without a complete bill-to block, so missing fields fail
// here with precise names instead of opaque processor errors.
func buildBillTo(context models.PaymentContext) (*billTo, error) {
	billing := context.Billing
	if billing == nil {
		return nil, pkgerrors.NewMissingRequiredField("billing")
	}
	if err := connectors.CollectMissing(map[string]string{
		"billing.first_name": billing.FirstName,
		"billing.last_name":  billing.LastName,
		"billing.line1":      billing.Line1,
		"billing.city":       billing.City,
		"billing.zip":        billing.Zip,
		"billing.country":    billing.Country,
		"context.email":      context.Email,
	}); err != nil {
		return nil, err
	}
	return &billTo{
		FirstName:          billing.FirstName,
		LastName:           billing.LastName,
		Address1:           billing.Line1,
		Locality:           billing.City,
		AdministrativeArea: billing.State,
		PostalCode:         billing.Zip,
		Country:            billing.Country,
		Email:              context.Email,
	}, nil
}

// mapPaymentInformation maps the canonical payment method onto the platform's
// card/fluidData duality. Cards, Apple Pay, and Google Pay only.
func mapPaymentInformation(data models.PaymentMethodData, processing *processingInformation) (paymentInformation, error) {
	switch data.Kind() {
	case models.KindCard:
		card := data.Card
		if err := connectors.CollectMissing(map[string]string{
			"card.number":    card.Number,
			"card.exp_month": card.ExpMonth,
			"card.exp_year":  card.ExpYear,
		}); err != nil {
			return paymentInformation{}, err
		}
		return paymentInformation{Card: &cardInformation{
			Number:          card.Number,
			ExpirationMonth: card.ExpMonth,
			ExpirationYear:  card.ExpYear,
			SecurityCode:    card.CVC,
			Type:            cardTypes[card.Network],
		}}, nil
	case models.KindWallet:
		wallet := data.Wallet
		switch wallet.Kind {
		case models.WalletApplePay:
			token, err := connectors.RequireString(wallet.Token, "wallet.apple_pay.token")
			if err != nil {
				return paymentInformation{}, err
			}
			processing.PaymentSolution = "001"
			return paymentInformation{FluidData: &fluidData{Value: token}}, nil
		case models.WalletGooglePay:
			token, err := connectors.RequireString(wallet.Token, "wallet.google_pay.token")
			if err != nil {
				return paymentInformation{}, err
			}
			processing.PaymentSolution = "012"
			return paymentInformation{FluidData: &fluidData{Value: token}}, nil
		}
		return paymentInformation{}, pkgerrors.NewNotImplemented(connectorName, string(wallet.Kind))
	}
	return paymentInformation{}, pkgerrors.NewNotImplemented(connectorName, string(data.Kind()))
}

// buildPaymentsRequest assembles the authorization body. Amounts cross the
// wire as major-unit decimal strings.
func buildPaymentsRequest(req *ports.AuthorizeRequest) (*paymentsRequest, error) {
	attempt := req.Attempt
	processing := processingInformation{
		Capture:           !attempt.CaptureMethod.IsManual(),
		CommerceIndicator: "internet",
	}
	// Moto/recurring indicators would branch here; the platform treats a
	// stored-credential charge as a follow-on transaction.
	if attempt.AuthType == models.AuthTypeThreeDS {
		processing.ActionList = append(processing.ActionList, "CONSUMER_AUTHENTICATION")
	}
	payment, err := mapPaymentInformation(req.PaymentMethod, &processing)
	if err != nil {
		return nil, err
	}
	bill, err := buildBillTo(req.Context)
	if err != nil {
		return nil, err
	}
	return &paymentsRequest{
		ProcessingInformation: processing,
		PaymentInformation:    payment,
		OrderInformation: orderInformation{
			AmountDetails: amountDetails{
				TotalAmount: attempt.AmountMinor.MajorUnitString(attempt.Currency),
				Currency:    attempt.Currency,
			},
			BillTo: bill,
		},
		ClientReferenceInformation: clientReferenceInformation{Code: attempt.ID},
	}, nil
}

func buildCaptureRequest(req *ports.CaptureRequest) *captureRequest {
	return &captureRequest{
		OrderInformation: orderInformation{
			AmountDetails: amountDetails{
				TotalAmount: req.AmountMinor.MajorUnitString(req.Attempt.Currency),
				Currency:    req.Attempt.Currency,
			},
		},
		ClientReferenceInformation: clientReferenceInformation{Code: req.Attempt.ID},
	}
}

func buildRefundRequest(req *ports.RefundRequest) *refundRequest {
	return &refundRequest{
		OrderInformation: orderInformation{
			AmountDetails: amountDetails{
				TotalAmount: req.AmountMinor.MajorUnitString(req.Attempt.Currency),
				Currency:    req.Attempt.Currency,
			},
		},
		ClientReferenceInformation: clientReferenceInformation{Code: req.RefundID},
	}
}
