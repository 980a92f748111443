package tenantdb

import (
	"regexp"
	"strings"
)

var (
	invalidChars  = regexp.MustCompile(`[^\w\s-]`)
	separatorRuns = regexp.MustCompile(`[-\s]+`)
)

// DeriveKey sanitizes a client display name into the filename stem of
// its database. Characters other than alphanumerics, underscore,
// whitespace and hyphen are stripped, runs of hyphens and whitespace
// collapse to a single underscore, and the result is lowercased.
//
// The function is pure: the same name always yields the same key. A
// name with no usable characters derives to the empty string, which
// addresses a store literally named ".db"; callers that consider that
// unacceptable should reject the name before provisioning.
func DeriveKey(displayName string) string {
	key := invalidChars.ReplaceAllString(displayName, "")
	key = separatorRuns.ReplaceAllString(key, "_")
	return strings.ToLower(key)
}
