package entities

import (
	"strings"
	"unicode/utf8"
)

// ProviderName identifies an upstream chain data source
type ProviderName string

const (
	ProviderKoios       ProviderName = "koios"
	ProviderCardanoscan ProviderName = "cardanoscan"
	ProviderCustom      ProviderName = "custom"
	ProviderBitvavo     ProviderName = "bitvavo"
)

// Providers lists every accepted provider name
var Providers = []ProviderName{ProviderKoios, ProviderCardanoscan, ProviderCustom, ProviderBitvavo}

// ParseProvider returns the provider for s, matching case-insensitively
func ParseProvider(s string) (ProviderName, bool) {
	p := ProviderName(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, true
		}
	}
	return "", false
}

func (p ProviderName) String() string {
	return string(p)
}

// MinAddressLength is the shortest address accepted by any route
const MinAddressLength = 10

// AddressTooShort reports whether addr has fewer than MinAddressLength characters
func AddressTooShort(addr string) bool {
	return utf8.RuneCountInString(addr) < MinAddressLength
}
