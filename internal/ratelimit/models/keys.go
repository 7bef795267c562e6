package models

import (
	"fmt"
	"strings"
)

// KeyPrefix names what a bucket is keyed on.
type KeyPrefix string

const (
	KeyPrefixIP       KeyPrefix = "ip"
	KeyPrefixConsumer KeyPrefix = "consumer"
)

// Key identifies one bucket. Identifier segments are escaped so that values
// containing ':' (party keys, IPv6 addresses) cannot address another bucket.
type Key struct {
	prefix     KeyPrefix
	identifier string
	class      EndpointClass
}

func NewKey(prefix KeyPrefix, identifier string, class EndpointClass) Key {
	return Key{
		prefix:     prefix,
		identifier: sanitizeKeySegment(identifier),
		class:      class,
	}
}

func (k Key) Prefix() KeyPrefix { return k.prefix }

func (k Key) Class() EndpointClass { return k.class }

// String returns the storage key.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.prefix, k.identifier, k.class)
}

// sanitizeKeySegment escapes '_' first, then ':' as "_c", which keeps the
// mapping injective.
func sanitizeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, ":", "_c")
	return s
}
