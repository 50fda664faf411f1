package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Reference prefixes printed on SMS messages and the ops dashboard.
const (
	RefPrefixLoan     = "PPL"
	RefPrefixPickup   = "PPK"
	RefPrefixPurchase = "PPC"
)

// NewReference builds a short human-readable code such as PPL-3F2A9C41.
func NewReference(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, raw[:8])
}
