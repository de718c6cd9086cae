package lib

import (
	"strings"
)

// OrderReference derives the short customer-facing reference (SM-XXXXXXXX)
// from an order id.
func OrderReference(orderID string) string {
	compact := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "SM-" + compact
}
