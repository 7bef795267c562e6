// Package privacy reduces client addresses and party identifiers to forms
// that are safe to write to logs and rate-limit diagnostics.
package privacy

import (
	"net/netip"
	"strings"

	"broker/pkg/domain"
)

const (
	unknown = "unknown"
	invalid = "invalid"
)

// AnonymizeIP keeps the network part of a client address: /24 for IPv4
// (including IPv4-mapped IPv6) and /48 for IPv6. Zones are dropped.
func AnonymizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == unknown {
		return unknown
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return invalid
	}
	addr = addr.Unmap().WithZone("")
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return invalid
	}
	return prefix.Addr().String()
}

// MaskIdentifier masks party keys that identify a person. Organization numbers
// and foreign identifiers are returned unchanged since they name legal entities.
func MaskIdentifier(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return unknown
	}
	if domain.IsValidSocialSecurityNumber(key) || looksPersonal(key) {
		return domain.MaskSocialSecurityNumber(key)
	}
	return key
}

// looksPersonal catches 11 digit values that fail the checksum; they are
// masked anyway rather than logged in the clear.
func looksPersonal(key string) bool {
	if len(key) != 11 {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
