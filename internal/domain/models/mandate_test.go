package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMandateReference(t *testing.T) {
	t.Run("connector mandate id alone", func(t *testing.T) {
		ref, err := NewMandateReference("mnd_123", "", "")
		require.NoError(t, err)
		assert.Equal(t, "mnd_123", ref.ConnectorMandateID)
	})

	t.Run("network transaction id alone", func(t *testing.T) {
		ref, err := NewMandateReference("", "nti_456", "")
		require.NoError(t, err)
		assert.Equal(t, "nti_456", ref.NetworkTransactionID)
	})

	t.Run("network transaction id with payment method id", func(t *testing.T) {
		ref, err := NewMandateReference("", "nti_456", "pm_789")
		require.NoError(t, err)
		assert.Equal(t, "nti_456", ref.NetworkTransactionID)
		assert.Equal(t, "pm_789", ref.PaymentMethodID)
	})

	t.Run("connector mandate id combined with network id rejected", func(t *testing.T) {
		_, err := NewMandateReference("mnd_123", "nti_456", "")
		assert.Error(t, err)
	})

	t.Run("payment method id without network id rejected", func(t *testing.T) {
		_, err := NewMandateReference("", "", "pm_789")
		assert.Error(t, err)
	})

	t.Run("all empty rejected", func(t *testing.T) {
		_, err := NewMandateReference("", "", "")
		assert.Error(t, err)
	})
}

func TestMandateReference_IsZero(t *testing.T) {
	assert.True(t, MandateReference{}.IsZero())
	assert.False(t, MandateReference{ConnectorMandateID: "mnd_1"}.IsZero())
	assert.False(t, MandateReference{NetworkTransactionID: "nti_1"}.IsZero())
}
