package connectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

func TestRequireString(t *testing.T) {
	got, err := RequireString("4242424242424242", "payment_method_data.card.number")
	require.NoError(t, err)
	assert.Equal(t, "4242424242424242", got)

	_, err = RequireString("", "payment_method_data.card.number")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindMissingRequiredField))
	assert.Contains(t, err.Error(), "payment_method_data.card.number")
}

func TestRequire(t *testing.T) {
	n := 42
	got, err := Require(&n, "amount")
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Require[int](nil, "amount")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindMissingRequiredField))
}

func TestCollectMissing(t *testing.T) {
	t.Run("nothing missing", func(t *testing.T) {
		err := CollectMissing(map[string]string{
			"card.exp_month": "03",
			"card.exp_year":  "2030",
		})
		assert.NoError(t, err)
	})

	t.Run("single missing field", func(t *testing.T) {
		err := CollectMissing(map[string]string{
			"card.exp_month": "",
			"card.exp_year":  "2030",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "card.exp_month")
		assert.NotContains(t, err.Error(), "card.exp_year")
	})

	t.Run("multiple missing fields sorted", func(t *testing.T) {
		err := CollectMissing(map[string]string{
			"billing.zip":        "",
			"billing.city":       "",
			"billing.first_name": "x",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsKind(err, pkgerrors.KindMissingRequiredField))
		assert.Contains(t, err.Error(), "billing.city, billing.zip")
	})
}

func TestJoinFieldDetails(t *testing.T) {
	assert.Nil(t, JoinFieldDetails(nil))

	joined := JoinFieldDetails([]FieldDetail{
		{Field: "expirationYear", Reason: "INVALID_DATA"},
		{Field: "cardNumber", Reason: "INVALID_DATA"},
	})
	require.NotNil(t, joined)
	assert.Equal(t, "expirationYear : INVALID_DATA, cardNumber : INVALID_DATA", *joined)
}

func TestComposeReason(t *testing.T) {
	msg := "Decline - Invalid account number"
	detail := "cardNumber : INVALID_DATA"
	avs := "AVS check failed"

	tests := []struct {
		name    string
		message *string
		detail  *string
		avs     *string
		want    string
		wantNil bool
	}{
		{"all three", &msg, &detail, &avs,
			"Decline - Invalid account number, detailed_error_information: cardNumber : INVALID_DATA, avs_message: AVS check failed", false},
		{"message and detail", &msg, &detail, nil,
			"Decline - Invalid account number, detailed_error_information: cardNumber : INVALID_DATA", false},
		{"message and avs", &msg, nil, &avs,
			"Decline - Invalid account number, avs_message: AVS check failed", false},
		{"detail and avs", nil, &detail, &avs,
			"cardNumber : INVALID_DATA, avs_message: AVS check failed", false},
		{"message only", &msg, nil, nil, msg, false},
		{"detail only", nil, &detail, nil, detail, false},
		{"avs only", nil, nil, &avs, avs, false},
		{"all absent", nil, nil, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeReason(tt.message, tt.detail, tt.avs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}
