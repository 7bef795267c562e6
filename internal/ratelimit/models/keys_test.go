package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// Identifiers containing delimiters must never address a neighbouring bucket.
type KeySuite struct {
	suite.Suite
}

func TestKeySuite(t *testing.T) {
	suite.Run(t, new(KeySuite))
}

func (s *KeySuite) TestSanitization() {
	s.Run("party keys keep their scheme apart from the delimiter", func() {
		key := NewKey(KeyPrefixConsumer, "0192:991825827", ClassHarvest)
		s.Equal("consumer:0192_c991825827:harvest", key.String())
	})

	s.Run("ipv6 addresses are escaped", func() {
		key := NewKey(KeyPrefixIP, "2001:db8::1", ClassPublic)
		s.Equal("ip:2001_cdb8_c_c1:public", key.String())
	})

	s.Run("escaped values do not collide", func() {
		a := NewKey(KeyPrefixConsumer, "a_:b", ClassRead)
		b := NewKey(KeyPrefixConsumer, "a:_b", ClassRead)
		s.NotEqual(a.String(), b.String())
	})

	s.Run("plain identifiers pass through", func() {
		key := NewKey(KeyPrefixIP, "10.0.0.1", ClassAuthorize)
		s.Equal("ip:10.0.0.1:authorize", key.String())
		s.Equal(KeyPrefixIP, key.Prefix())
		s.Equal(ClassAuthorize, key.Class())
	})

	s.Run("empty identifier keeps the layout", func() {
		s.Equal("ip::public", NewKey(KeyPrefixIP, "", ClassPublic).String())
	})
}

func (s *KeySuite) TestClassValidity() {
	s.True(ClassHarvest.IsValid())
	s.False(EndpointClass("admin").IsValid())
}
