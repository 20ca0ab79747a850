package infotable

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/google/uuid"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
)

type AttributeType string

const (
	Condition   AttributeType = "condition"
	Decision    AttributeType = "decision"
	Description AttributeType = "description"
)

type ValueType string

const (
	Integer     ValueType = "integer"
	Real        ValueType = "real"
	Enumeration ValueType = "enumeration"
)

type PreferenceType string

const (
	Gain         PreferenceType = "gain"
	Cost         PreferenceType = "cost"
	NoPreference PreferenceType = "none"
)

type IdentifierType string

const (
	UUID IdentifierType = "uuid"
	Text IdentifierType = "text"
)

const (
	MissingValueMV2  = "mv2"
	MissingValueMV15 = "mv1.5"
)

// MissingValue is the textual form of a missing evaluation.
const MissingValue = "?"

// Attribute describes one column of an information table.
//
// An attribute is either an identification attribute (IdentifierType is set)
// or an evaluation attribute (Type, ValueType and PreferenceType are set).
type Attribute struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`

	IdentifierType IdentifierType `json:"identifierType,omitempty"`

	Type             AttributeType  `json:"type,omitempty"`
	ValueType        ValueType      `json:"valueType,omitempty"`
	PreferenceType   PreferenceType `json:"preferenceType,omitempty"`
	MissingValueType string         `json:"missingValueType,omitempty"`
	Domain           []string       `json:"domain,omitempty"`
}

// UnmarshalJSON reads an attribute. "active" defaults to true.
func (a *Attribute) UnmarshalJSON(b []byte) error {
	type plain Attribute
	f := struct {
		plain
		Active *bool `json:"active"`
	}{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return err
	}
	*a = Attribute(f.plain)
	a.Active = f.Active == nil || *f.Active
	return nil
}

func (a Attribute) IsIdentification() bool {
	return a.IdentifierType != ""
}

// IsDescriptive tells whether values of the attribute can name objects.
func (a Attribute) IsDescriptive() bool {
	return a.IsIdentification() || a.Type == Description
}

func (a Attribute) validate() error {
	if a.Name == "" {
		return kerr.InvalidFormat("attribute name should not be empty")
	}

	if a.IsIdentification() {
		switch a.IdentifierType {
		case UUID, Text:
		default:
			return kerr.InvalidFormat(
				`attribute "%s": identifierType should be one of uuid, text (got "%s")`,
				a.Name, a.IdentifierType,
			)
		}
		if a.Type != "" || a.ValueType != "" || a.PreferenceType != "" || len(a.Domain) != 0 {
			return kerr.InvalidFormat(
				`attribute "%s": identification attribute cannot have type, valueType, preferenceType nor domain`,
				a.Name,
			)
		}
		return nil
	}

	switch a.Type {
	case Condition, Decision, Description:
	default:
		return kerr.InvalidFormat(
			`attribute "%s": type should be one of condition, decision, description (got "%s")`,
			a.Name, a.Type,
		)
	}
	switch a.PreferenceType {
	case Gain, Cost, NoPreference:
	default:
		return kerr.InvalidFormat(
			`attribute "%s": preferenceType should be one of gain, cost, none (got "%s")`,
			a.Name, a.PreferenceType,
		)
	}
	switch a.MissingValueType {
	case "", MissingValueMV2, MissingValueMV15:
	default:
		return kerr.InvalidFormat(
			`attribute "%s": missingValueType should be one of mv2, mv1.5 (got "%s")`,
			a.Name, a.MissingValueType,
		)
	}
	switch a.ValueType {
	case Integer, Real:
		if len(a.Domain) != 0 {
			return kerr.InvalidFormat(`attribute "%s": only enumeration can have domain`, a.Name)
		}
	case Enumeration:
		if len(a.Domain) == 0 {
			return kerr.InvalidFormat(`attribute "%s": enumeration should have domain`, a.Name)
		}
		seen := map[string]struct{}{}
		for _, v := range a.Domain {
			if v == "" || v == MissingValue {
				return kerr.InvalidFormat(`attribute "%s": domain contains an empty or missing value`, a.Name)
			}
			if _, ok := seen[v]; ok {
				return kerr.InvalidFormat(`attribute "%s": domain contains "%s" twice`, a.Name, v)
			}
			seen[v] = struct{}{}
		}
	default:
		return kerr.InvalidFormat(
			`attribute "%s": valueType should be one of integer, real, enumeration (got "%s")`,
			a.Name, a.ValueType,
		)
	}
	return nil
}

// canonical validates a raw value against the attribute and returns its
// canonical textual form.
func (a Attribute) canonical(raw string) (string, error) {
	if raw == "" || raw == MissingValue {
		return MissingValue, nil
	}
	if a.IsIdentification() {
		if a.IdentifierType == UUID {
			if _, err := uuid.Parse(raw); err != nil {
				return "", kerr.InvalidFormat(`attribute "%s": "%s" is not a uuid`, a.Name, raw)
			}
		}
		return raw, nil
	}

	switch a.ValueType {
	case Integer:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return "", kerr.InvalidFormat(`attribute "%s": "%s" is not an integer`, a.Name, raw)
		}
		return strconv.Itoa(v), nil
	case Real:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", kerr.InvalidFormat(`attribute "%s": "%s" is not a real number`, a.Name, raw)
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		for _, d := range a.Domain {
			if d == raw {
				return raw, nil
			}
		}
		return "", kerr.InvalidFormat(`attribute "%s": "%s" is not in the domain`, a.Name, raw)
	}
}

// ParseMetadata reads a JSON array of attributes and validates it.
func ParseMetadata(metadata []byte) ([]Attribute, error) {
	var attrs []Attribute
	if err := json.Unmarshal(metadata, &attrs); err != nil {
		return nil, kerr.InvalidFormat("metadata is not a JSON array of attributes: %s", err)
	}
	if err := ValidateAttributes(attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// ValidateAttributes checks each attribute and relationships between them.
func ValidateAttributes(attrs []Attribute) error {
	names := map[string]struct{}{}
	activeIdentifications := 0
	for _, a := range attrs {
		if err := a.validate(); err != nil {
			return err
		}
		if _, ok := names[a.Name]; ok {
			return kerr.InvalidFormat(`attribute name "%s" is duplicated`, a.Name)
		}
		names[a.Name] = struct{}{}
		if a.IsIdentification() && a.Active {
			activeIdentifications++
		}
	}
	if 1 < activeIdentifications {
		return kerr.InvalidFormat("there should be at most one active identification attribute")
	}
	return nil
}
