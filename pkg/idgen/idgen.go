package idgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity id prefixes.
const (
	PrefixClient       = "CLI"
	PrefixPurchase     = "PUR"
	PrefixSale         = "SAL"
	PrefixB2CSale      = "B2C"
	PrefixGSTReturn    = "RET"
	PrefixSundryDebtor = "DEB"
)

// New returns an identifier of the form <PREFIX>_<epoch-seconds>_<8
// uppercase hex chars>. The time component makes ids roughly sortable;
// the random suffix makes collisions negligible but not impossible, so
// inserts still rely on the primary-key constraint to catch a duplicate.
func New(prefix string) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().Unix(), suffix)
}
