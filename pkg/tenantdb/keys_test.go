package tenantdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Traders", "acme_traders"},
		{"punctuation stripped", "Acme & Sons, Ltd.", "acme_sons_ltd"},
		{"hyphens collapse", "Sharma--Traders", "sharma_traders"},
		{"mixed separators", "Gupta -  Iron & Steel", "gupta_iron_steel"},
		{"already clean", "patel_metals", "patel_metals"},
		{"digits kept", "24x7 Stores", "24x7_stores"},
		{"empty", "", ""},
		{"nothing usable", "!!!???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveKey(tt.in))
		})
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "acme_traders", DeriveKey("Acme Traders"))
	}
}

func TestDeriveKeyIdempotent(t *testing.T) {
	key := DeriveKey("Acme Traders Pvt Ltd")
	assert.Equal(t, key, DeriveKey(key))
}
