// Package legalbasis validates supplied legal basis documents by type.
package legalbasis

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"broker/internal/evidence/models"
	"broker/internal/policy/ports"
)

// espdRoots are the accepted document elements of an ESPD.
var espdRoots = map[string]struct{}{
	"QualificationApplicationRequest":  {},
	"QualificationApplicationResponse": {},
	"ESPDRequest":                      {},
	"ESPDResponse":                     {},
}

// ESPD accepts a well-formed European Single Procurement Document.
type ESPD struct{}

func (ESPD) Validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("empty ESPD document")
	}
	dec := xml.NewDecoder(strings.NewReader(content))
	root := ""
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed ESPD document: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && root == "" {
			root = se.Name.Local
		}
	}
	if _, ok := espdRoots[root]; !ok {
		return fmt.Errorf("unexpected ESPD root element %q", root)
	}
	return nil
}

var cpvCode = regexp.MustCompile(`^\d{8}(-\d)?$`)

// CPV accepts one or more Common Procurement Vocabulary codes separated by
// commas or whitespace.
type CPV struct{}

func (CPV) Validate(content string) error {
	codes := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(codes) == 0 {
		return errors.New("no CPV codes supplied")
	}
	for _, c := range codes {
		if !cpvCode.MatchString(c) {
			return fmt.Errorf("invalid CPV code %q", c)
		}
	}
	return nil
}

// Defaults returns the built-in validators keyed by legal basis type.
func Defaults() map[models.LegalBasisType]ports.LegalBasisValidator {
	return map[models.LegalBasisType]ports.LegalBasisValidator{
		models.LegalBasisESPD: ESPD{},
		models.LegalBasisCPV:  CPV{},
	}
}
