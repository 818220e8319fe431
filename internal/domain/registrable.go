package domain

import (
	"net"

	"golang.org/x/net/publicsuffix"
)

// RegistrableDomain maps a hostname to its registrable domain, the
// public-suffix-aware eTLD+1: "a.b.example.co.uk" → "example.co.uk".
//
// IP literals are returned in their normalized form: they have no
// registrable domain, but comparing them verbatim keeps the same-domain
// check meaningful for IP-hosted redirectors. Single-label hosts and
// unknown suffixes fall back to the normalized host.
func RegistrableDomain(host string) (string, error) {
	h, err := NormalizeHost(host)
	if err != nil {
		return "", err
	}
	if ip := net.ParseIP(h); ip != nil {
		return h, nil
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(h)
	if err != nil {
		return h, nil
	}
	return etld1, nil
}
