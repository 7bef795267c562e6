package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ipv4 host", "192.168.1.47", "192.168.1.0"},
		{"ipv4 already a network", "10.0.0.0", "10.0.0.0"},
		{"ipv4 surrounding space", " 172.16.50.255 ", "172.16.50.0"},
		{"ipv4 mapped ipv6", "::ffff:203.0.113.9", "203.0.113.0"},
		{"ipv6 keeps /48", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"ipv6 with zone", "fe80::1%eth0", "fe80::"},
		{"ipv6 loopback", "::1", "::"},
		{"empty", "", "unknown"},
		{"unknown marker", "unknown", "unknown"},
		{"hostname", "gateway.local", "invalid"},
		{"address with port", "192.168.1.47:8080", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeIP(tt.input))
		})
	}
}

func TestMaskIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"personal identifier", "01019010046", "010190*****"},
		{"eleven digits failing the checksum", "12345678901", "123456*****"},
		{"organization number", "991825827", "991825827"},
		{"foreign party", "iso6523-actorid-upis::0007:5567321707", "iso6523-actorid-upis::0007:5567321707"},
		{"empty", " ", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskIdentifier(tt.input))
		})
	}
}
