// Package entityregistry looks up legal entities in the national entity register.
package entityregistry

import (
	"slices"
	"time"
)

// Unit is the simplified register record the broker needs.
type Unit struct {
	OrganizationNumber string    `json:"organizationNumber"`
	Name               string    `json:"name"`
	LegalForm          string    `json:"legalForm"`
	SectorCode         string    `json:"sectorCode,omitempty"`
	IndustryCodes      []string  `json:"industryCodes,omitempty"`
	ParentUnit         string    `json:"parentUnit,omitempty"`
	Deleted            bool      `json:"deleted"`
	DeletedAt          time.Time `json:"deletedAt,omitzero"`
}

// Legal forms and institutional sector codes that mark a unit as part of the public sector.
var (
	publicLegalForms  = []string{"STAT", "FYLK", "KOMM", "ORGL", "SF", "KF", "FKF", "IKS"}
	publicSectorCodes = []string{"6100", "6500"}
)

// IsPublicAgency reports whether the unit classifies as a public agency.
func (u *Unit) IsPublicAgency() bool {
	return slices.Contains(publicLegalForms, u.LegalForm) || slices.Contains(publicSectorCodes, u.SectorCode)
}

// brregUnit is the upstream wire shape.
type brregUnit struct {
	OrganizationNumber string `json:"organisasjonsnummer"`
	Name               string `json:"navn"`
	LegalForm          struct {
		Code string `json:"kode"`
	} `json:"organisasjonsform"`
	Sector *struct {
		Code string `json:"kode"`
	} `json:"institusjonellSektorkode,omitempty"`
	Industry1 *struct {
		Code string `json:"kode"`
	} `json:"naeringskode1,omitempty"`
	Industry2 *struct {
		Code string `json:"kode"`
	} `json:"naeringskode2,omitempty"`
	ParentUnit  string `json:"overordnetEnhet,omitempty"`
	DeletedDate string `json:"slettedato,omitempty"`
}

func (b brregUnit) toUnit() *Unit {
	u := &Unit{
		OrganizationNumber: b.OrganizationNumber,
		Name:               b.Name,
		LegalForm:          b.LegalForm.Code,
		ParentUnit:         b.ParentUnit,
	}
	if b.Sector != nil {
		u.SectorCode = b.Sector.Code
	}
	if b.Industry1 != nil && b.Industry1.Code != "" {
		u.IndustryCodes = append(u.IndustryCodes, b.Industry1.Code)
	}
	if b.Industry2 != nil && b.Industry2.Code != "" {
		u.IndustryCodes = append(u.IndustryCodes, b.Industry2.Code)
	}
	if b.DeletedDate != "" {
		u.Deleted = true
		if t, err := time.Parse(time.DateOnly, b.DeletedDate); err == nil {
			u.DeletedAt = t
		}
	}
	return u
}
