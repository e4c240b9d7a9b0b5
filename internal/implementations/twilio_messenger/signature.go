package twiliomessenger

import (
	"github.com/twilio/twilio-go/client"
)

// SignatureValidator checks the X-Twilio-Signature header of webhook
// requests.
type SignatureValidator struct {
	validator client.RequestValidator
}

func NewSignatureValidator(authToken string) *SignatureValidator {
	return &SignatureValidator{validator: client.NewRequestValidator(authToken)}
}

func (v *SignatureValidator) ValidateSignature(url string, params map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	return v.validator.Validate(url, params, signature)
}
