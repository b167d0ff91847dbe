package adyen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/payment-connectors/internal/domain/models"
	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

func TestParsePaymentResponse_ShapeResolution(t *testing.T) {
	t.Run("plain response", func(t *testing.T) {
		parsed, err := parsePaymentResponse([]byte(`{"pspReference":"psp_1","resultCode":"Authorised"}`))
		require.NoError(t, err)
		require.NotNil(t, parsed.Response)
		assert.Equal(t, "psp_1", parsed.Response.PspReference)
	})

	t.Run("voucher action wins over plain fields", func(t *testing.T) {
		body := `{"pspReference":"psp_1","resultCode":"PresentToShopper","action":{"type":"voucher","paymentMethodType":"boletobancario","reference":"ref","expiresAt":"2026-09-30"}}`
		parsed, err := parsePaymentResponse([]byte(body))
		require.NoError(t, err)
		require.NotNil(t, parsed.PresentToShopper)
		assert.Nil(t, parsed.Response)
	})

	t.Run("qr code data wins over redirect url", func(t *testing.T) {
		body := `{"resultCode":"Pending","action":{"type":"qrCode","paymentMethodType":"pix","qrCodeData":"000201","url":"https://example/qr"}}`
		parsed, err := parsePaymentResponse([]byte(body))
		require.NoError(t, err)
		require.NotNil(t, parsed.QrCode)
	})

	t.Run("redirect action", func(t *testing.T) {
		body := `{"resultCode":"RedirectShopper","action":{"type":"redirect","url":"https://checkout.example/3ds","method":"POST","data":{"MD":"x"}}}`
		parsed, err := parsePaymentResponse([]byte(body))
		require.NoError(t, err)
		require.NotNil(t, parsed.Redirection)
		assert.Equal(t, "https://checkout.example/3ds", parsed.Redirection.Action.URL)
	})

	t.Run("webhook-delivered resource", func(t *testing.T) {
		body := `{"transactionId":"tx_1","paymentReference":"att_1","status":"captured","eventCode":"CAPTURE"}`
		parsed, err := parsePaymentResponse([]byte(body))
		require.NoError(t, err)
		require.NotNil(t, parsed.Webhook)
	})

	t.Run("redirection error with only result code", func(t *testing.T) {
		parsed, err := parsePaymentResponse([]byte(`{"resultCode":"Refused","refusalReason":"Expired Card"}`))
		require.NoError(t, err)
		require.NotNil(t, parsed.RedirectionError)
	})

	t.Run("unknown shape fails", func(t *testing.T) {
		_, err := parsePaymentResponse([]byte(`{"something":"else"}`))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindResponseHandling))
	})

	t.Run("invalid json fails", func(t *testing.T) {
		_, err := parsePaymentResponse([]byte(`not json`))
		require.Error(t, err)
	})
}

func TestHandlePlainResponse(t *testing.T) {
	t.Run("refusal populates sentinel-backed error", func(t *testing.T) {
		resp := &paymentResponse{
			PspReference:  "psp_1",
			ResultCode:    StatusRefused,
			RefusalReason: "Expired Card",
			AdditionalData: &responseAdditional{
				RefusalCodeRaw:   "05",
				RefusalReasonRaw: "DECLINED Expiry",
			},
		}
		result := handlePlainResponse(resp, 200, false, models.PMTCredit)
		assert.Equal(t, models.StatusFailure, result.Status)
		require.NotNil(t, result.Error)
		assert.Equal(t, models.NoErrorCode, result.Error.Code)
		assert.Equal(t, "Expired Card", result.Error.Message)
		require.NotNil(t, result.Error.Reason)
		assert.Equal(t, "Expired Card", *result.Error.Reason)
		assert.Equal(t, "05", result.Error.IssuerErrorCode)
		assert.Equal(t, "DECLINED Expiry", result.Error.IssuerErrorMessage)
		assert.Equal(t, "psp_1", result.Error.ConnectorTransactionID)
	})

	t.Run("refusal without reason keeps nil reason", func(t *testing.T) {
		result := handlePlainResponse(&paymentResponse{PspReference: "psp_1", ResultCode: StatusRefused}, 200, false, models.PMTCredit)
		require.NotNil(t, result.Error)
		assert.Nil(t, result.Error.Reason)
		assert.Equal(t, models.NoErrorMessage, result.Error.Message)
	})

	t.Run("success extracts mandate and network transaction id", func(t *testing.T) {
		resp := &paymentResponse{
			PspReference:      "psp_1",
			ResultCode:        StatusAuthorised,
			MerchantReference: "att_1",
			AdditionalData: &responseAdditional{
				RecurringDetailReference: "8415995487234100",
				NetworkTxReference:       "858435661128535",
			},
		}
		result := handlePlainResponse(resp, 200, true, models.PMTCredit)
		assert.Equal(t, models.StatusAuthorized, result.Status)
		require.NotNil(t, result.Response)
		assert.Equal(t, "psp_1", result.Response.ConnectorTransactionID)
		require.NotNil(t, result.Response.Mandate)
		assert.Equal(t, "8415995487234100", result.Response.Mandate.ConnectorMandateID)
		assert.Equal(t, "858435661128535", result.Response.NetworkTransactionID)
	})

	t.Run("cancellation is a void, not a failure", func(t *testing.T) {
		result := handlePlainResponse(&paymentResponse{PspReference: "psp_1", ResultCode: StatusCancelled}, 200, false, models.PMTCredit)
		assert.Equal(t, models.StatusVoided, result.Status)
		assert.Nil(t, result.Error)
		require.NotNil(t, result.Response)
		assert.Equal(t, "psp_1", result.Response.ConnectorTransactionID)
	})

	t.Run("splits come back as charges", func(t *testing.T) {
		resp := &paymentResponse{
			PspReference: "psp_1",
			ResultCode:   StatusAuthorised,
			Splits: []splitData{
				{SplitType: models.SplitBalanceAccount, Account: "BA1", Reference: "r1", Amount: &Amount{Currency: "USD", Value: 700}},
			},
			Store: "store_1",
		}
		result := handlePlainResponse(resp, 200, false, models.PMTCredit)
		require.NotNil(t, result.Response.Charges)
		assert.Equal(t, "store_1", result.Response.Charges.Store)
		require.Len(t, result.Response.Charges.Splits, 1)
		assert.Equal(t, models.MinorUnit(700), result.Response.Charges.Splits[0].AmountMinor)
	})
}

func TestPresentToShopperMetadata(t *testing.T) {
	details := presentToShopperMetadata(&voucherAction{
		PaymentMethodType: "boletobancario",
		Reference:         "ref",
		ExpiresAt:         "2026-09-30",
		DownloadURL:       "https://example/pdf",
	})
	require.NotNil(t, details)
	assert.Equal(t, "ref", details.Reference)

	assert.Nil(t, presentToShopperMetadata(&voucherAction{PaymentMethodType: "something_else"}))
}

func TestQrCodeMetadata(t *testing.T) {
	for _, pmt := range []string{"pix", "swish", "wechatpayWeb", "duitnow", "promptpay"} {
		details := qrCodeMetadata(&qrAction{PaymentMethodType: pmt, QrCodeData: "000201"})
		require.NotNil(t, details, pmt)
		assert.Equal(t, "000201", details.QrCodeData)
	}
	assert.Nil(t, qrCodeMetadata(&qrAction{PaymentMethodType: "ideal"}))
}

func TestHandleRedirection(t *testing.T) {
	resp := &redirectionResponse{
		ResultCode:   StatusRedirectShopper,
		PspReference: "psp_1",
		Action:       &redirectAction{URL: "https://checkout.example/3ds?MD=x", Type: "redirect"},
	}
	result := handleRedirection(resp, 200, false, models.PMTCredit)
	assert.Equal(t, models.StatusAuthenticationPending, result.Status)
	require.NotNil(t, result.Response.Redirect)
	assert.Equal(t, "GET", result.Response.Redirect.Method)
	assert.Equal(t, "x", result.Response.Redirect.Fields["MD"])
}

func TestHandleMultiCaptureSync(t *testing.T) {
	resp := &webhookSyncResponse{
		TransactionID:    "cap_2",
		PaymentReference: "psp_1",
		Status:           WebhookCaptured,
		Amount:           &Amount{Currency: "USD", Value: 500},
	}
	result, err := handleMultiCaptureSync(resp, []string{"cap_1", "cap_2"}, true)
	require.NoError(t, err)
	assert.Equal(t, "psp_1", result.Response.ConnectorTransactionID)
	require.Len(t, result.Response.Captures, 2)
	assert.Equal(t, models.StatusPending, result.Response.Captures[0].Status)
	assert.Equal(t, models.StatusCharged, result.Response.Captures[1].Status)
	assert.Equal(t, models.MinorUnit(500), result.Response.Captures[1].AmountMinor)
}

func TestHandleModificationResponse(t *testing.T) {
	result, err := handleModificationResponse([]byte(`{"pspReference":"mod_1","reference":"att_1","status":"received"}`), models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
	assert.Equal(t, "mod_1", result.Response.ConnectorTransactionID)

	_, err = handleModificationResponse([]byte(`{"status":"received"}`), models.StatusPending)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindResponseHandling))
}

func TestHandleErrorBody(t *testing.T) {
	errResp := handleErrorBody([]byte(`{"status":422,"errorCode":"101","message":"Invalid card number","pspReference":"psp_9"}`), 422)
	assert.Equal(t, "101", errResp.Code)
	assert.Equal(t, "Invalid card number", errResp.Message)
	assert.Equal(t, "psp_9", errResp.ConnectorTransactionID)

	unparseable := handleErrorBody([]byte(`<html>`), 503)
	assert.Equal(t, models.NoErrorCode, unparseable.Code)
	assert.Equal(t, "http 503", unparseable.Message)
}
