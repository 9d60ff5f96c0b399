package payment

import (
	"fmt"
	"strings"
)

var urlAlphabet = strings.NewReplacer("+", "-", "/", "_")

// TransferLink returns ton:// url with the same message, it can be shown as QR code
// for wallets without TON Connect.
func TransferLink(msg Message, validUntil int64) string {
	link := fmt.Sprintf("ton://transfer/%s?amount=%s", msg.Address, msg.Amount)
	if msg.Payload != "" {
		link += "&bin=" + urlAlphabet.Replace(msg.Payload)
	}
	if validUntil > 0 {
		link += fmt.Sprintf("&exp=%d", validUntil)
	}
	return link
}
