package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedirectForm(t *testing.T) {
	t.Run("explicit fields preserved", func(t *testing.T) {
		form := NewRedirectForm("https://bank.example/pay", "POST", map[string]string{
			"MD":    "abc",
			"PaReq": "xyz",
		})
		assert.Equal(t, "https://bank.example/pay", form.Endpoint)
		assert.Equal(t, "POST", form.Method)
		assert.Equal(t, map[string]string{"MD": "abc", "PaReq": "xyz"}, form.Fields)
	})

	t.Run("query params become fields when none given", func(t *testing.T) {
		form := NewRedirectForm("https://bank.example/pay?token=t1&session=s2", "GET", nil)
		assert.Equal(t, map[string]string{"token": "t1", "session": "s2"}, form.Fields)
	})

	t.Run("url without query yields empty fields", func(t *testing.T) {
		form := NewRedirectForm("https://bank.example/pay", "GET", nil)
		assert.Empty(t, form.Fields)
		assert.NotNil(t, form.Fields)
	})
}

func TestNewErrorResponse(t *testing.T) {
	t.Run("sentinels applied when connector omits fields", func(t *testing.T) {
		resp := NewErrorResponse("", "", 402)
		assert.Equal(t, NoErrorCode, resp.Code)
		assert.Equal(t, NoErrorMessage, resp.Message)
		assert.Equal(t, 402, resp.StatusCode)
	})

	t.Run("provided values kept", func(t *testing.T) {
		resp := NewErrorResponse("card_declined", "Your card was declined.", 402)
		assert.Equal(t, "card_declined", resp.Code)
		assert.Equal(t, "Your card was declined.", resp.Message)
	})
}
