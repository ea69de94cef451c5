package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a Mercado Pago webhook signature. The provider signs
// HMAC-SHA256("<x-request-id>:<raw body>", secret) and sends the hex digest in
// the x-signature header.
func VerifySignature(body []byte, signature, requestID, secret string) bool {
	if signature == "" || requestID == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(requestID))
	mac.Write([]byte(":"))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}
