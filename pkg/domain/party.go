// Package domain provides the identity value types shared across the broker.
package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// SchemeISO6523 is the participant identifier scheme used for legal entities.
	SchemeISO6523 = "iso6523-actorid-upis"

	// norwegianICD is the ISO 6523 ICD of the Norwegian entity register.
	norwegianICD = "0192"

	schemeSeparator = "::"
)

// ErrInvalidParty is returned for identifiers that cannot be normalized.
var ErrInvalidParty = errors.New("invalid party identifier")

// PartyKind tells which of the identifier forms a Party carries.
type PartyKind int

const (
	PartyKindNone PartyKind = iota
	PartyKindOrganization
	PartyKindPerson
	PartyKindForeign
)

// Party is a tagged identity. At most one of the three forms is populated:
// a Norwegian organization number, a Norwegian personal identifier, or a
// foreign (Scheme, ID) pair.
type Party struct {
	NorwegianOrganizationNumber   string `json:"norwegianOrganizationNumber,omitempty"`
	NorwegianSocialSecurityNumber string `json:"norwegianSocialSecurityNumber,omitempty"`
	Scheme                        string `json:"scheme,omitempty"`
	ID                            string `json:"id,omitempty"`
}

// NewOrganization returns a domestic organization party without validating the checksum.
func NewOrganization(orgNo string) Party {
	return Party{NorwegianOrganizationNumber: orgNo}
}

// ParseParty normalizes an identifier string into a Party.
//
// Accepted forms:
//   - "991825827" (9 digits, mod-11 checksum)
//   - "0192:991825827" and "iso6523-actorid-upis::0192:991825827"
//   - 11 digit personal identifiers (double mod-11 checksum)
//   - "<scheme>::<id>" for foreign parties
func ParseParty(raw string) (Party, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Party{}, fmt.Errorf("%w: empty identifier", ErrInvalidParty)
	}

	if scheme, id, ok := strings.Cut(value, schemeSeparator); ok {
		scheme = strings.TrimSpace(scheme)
		id = strings.TrimSpace(id)
		if scheme == "" || id == "" {
			return Party{}, fmt.Errorf("%w: empty scheme or id", ErrInvalidParty)
		}
		if strings.EqualFold(scheme, SchemeISO6523) {
			if orgNo, ok := strings.CutPrefix(id, norwegianICD+":"); ok {
				return parseDomestic(orgNo)
			}
		}
		return Party{Scheme: scheme, ID: id}, nil
	}

	if orgNo, ok := strings.CutPrefix(value, norwegianICD+":"); ok {
		return parseDomestic(orgNo)
	}
	return parseDomestic(value)
}

func parseDomestic(value string) (Party, error) {
	switch {
	case IsValidOrganizationNumber(value):
		return Party{NorwegianOrganizationNumber: value}, nil
	case IsValidSocialSecurityNumber(value):
		return Party{NorwegianSocialSecurityNumber: value}, nil
	default:
		return Party{}, fmt.Errorf("%w: not a valid organization number or personal identifier", ErrInvalidParty)
	}
}

// Kind returns which identifier form is populated.
func (p Party) Kind() PartyKind {
	switch {
	case p.NorwegianOrganizationNumber != "":
		return PartyKindOrganization
	case p.NorwegianSocialSecurityNumber != "":
		return PartyKindPerson
	case p.Scheme != "" || p.ID != "":
		return PartyKindForeign
	default:
		return PartyKindNone
	}
}

// IsZero reports whether no identifier form is populated.
func (p Party) IsZero() bool { return p.Kind() == PartyKindNone }

// IsDomestic reports whether the party is a Norwegian organization or person.
func (p Party) IsDomestic() bool {
	k := p.Kind()
	return k == PartyKindOrganization || k == PartyKindPerson
}

// Validate checks the at-most-one-form invariant.
func (p Party) Validate() error {
	populated := 0
	if p.NorwegianOrganizationNumber != "" {
		populated++
	}
	if p.NorwegianSocialSecurityNumber != "" {
		populated++
	}
	if p.Scheme != "" || p.ID != "" {
		populated++
		if p.Scheme == "" || p.ID == "" {
			return fmt.Errorf("%w: foreign party requires both scheme and id", ErrInvalidParty)
		}
	}
	if populated > 1 {
		return fmt.Errorf("%w: more than one identifier form", ErrInvalidParty)
	}
	return nil
}

// Key returns the canonical, unmasked identifier. Used for equality, allow lists
// and upstream calls. Never log it.
func (p Party) Key() string {
	switch p.Kind() {
	case PartyKindOrganization:
		return p.NorwegianOrganizationNumber
	case PartyKindPerson:
		return p.NorwegianSocialSecurityNumber
	case PartyKindForeign:
		return p.Scheme + schemeSeparator + p.ID
	default:
		return ""
	}
}

// Equal compares parties by canonical identifier.
func (p Party) Equal(other Party) bool {
	return p.Kind() == other.Kind() && p.Key() == other.Key()
}

// String returns a display form. Personal identifiers are masked.
func (p Party) String() string {
	switch p.Kind() {
	case PartyKindPerson:
		return MaskSocialSecurityNumber(p.NorwegianSocialSecurityNumber)
	case PartyKindNone:
		return "(none)"
	default:
		return p.Key()
	}
}

// LogValue keeps personal identifiers out of structured logs.
func (p Party) LogValue() slog.Value { return slog.StringValue(p.String()) }

// MaskSocialSecurityNumber keeps the birth date part and masks the individual number.
func MaskSocialSecurityNumber(ssn string) string {
	if len(ssn) <= 6 {
		return strings.Repeat("*", len(ssn))
	}
	return ssn[:6] + strings.Repeat("*", len(ssn)-6)
}

// IsValidOrganizationNumber validates a 9 digit organization number with its mod-11 check digit.
func IsValidOrganizationNumber(s string) bool {
	if len(s) != 9 || !allDigits(s) {
		return false
	}
	check, ok := mod11(s[:8], []int{3, 2, 7, 6, 5, 4, 3, 2})
	return ok && check == int(s[8]-'0')
}

// IsValidSocialSecurityNumber validates an 11 digit personal identifier with both check digits.
func IsValidSocialSecurityNumber(s string) bool {
	if len(s) != 11 || !allDigits(s) {
		return false
	}
	k1, ok := mod11(s[:9], []int{3, 7, 6, 1, 8, 9, 4, 5, 2})
	if !ok || k1 != int(s[9]-'0') {
		return false
	}
	k2, ok := mod11(s[:10], []int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2})
	return ok && k2 == int(s[10]-'0')
}

func mod11(digits string, weights []int) (int, bool) {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0, true
	case 10:
		return 0, false
	default:
		return check, true
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
