// Package infotable holds information tables: attributes (metadata) and the
// evaluations of objects on them (data).
//
// Tables are immutable once built. Operations which "change" a table return
// a new one.
package infotable

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
)

type Table struct {
	attributes []Attribute
	// rows[i][j] is a value of i-th object on j-th attribute.
	rows [][]string
}

// New builds a table.
//
// Values are validated against attributes and stored in their canonical form.
func New(attrs []Attribute, rows [][]string) (*Table, error) {
	if err := ValidateAttributes(attrs); err != nil {
		return nil, err
	}
	return build(attrs, rows)
}

func build(attrs []Attribute, rows [][]string) (*Table, error) {
	t := &Table{
		attributes: append([]Attribute(nil), attrs...),
		rows:       make([][]string, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(attrs) {
			return nil, kerr.InvalidFormat(
				"object %d has %d values, but there are %d attributes", i+1, len(row), len(attrs),
			)
		}
		r := make([]string, len(row))
		for j, raw := range row {
			v, err := attrs[j].canonical(raw)
			if err != nil {
				return nil, kerr.InvalidFormat("object %d: %s", i+1, kerr.Message(err))
			}
			r[j] = v
		}
		t.rows[i] = r
	}
	return t, nil
}

func (t *Table) Attributes() []Attribute {
	return append([]Attribute{}, t.attributes...)
}

func (t *Table) NumberOfObjects() int {
	return len(t.rows)
}

func (t *Table) Value(object, attribute int) string {
	return t.rows[object][attribute]
}

// Object returns values of an object keyed by attribute name.
func (t *Table) Object(i int) map[string]string {
	o := make(map[string]string, len(t.attributes))
	for j, a := range t.attributes {
		o[a.Name] = t.rows[i][j]
	}
	return o
}

func (t *Table) Objects() []map[string]string {
	objs := make([]map[string]string, len(t.rows))
	for i := range t.rows {
		objs[i] = t.Object(i)
	}
	return objs
}

// Rows returns a copy of all values.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = append([]string(nil), r...)
	}
	return rows
}

func (t *Table) AttributeIndex(name string) (int, bool) {
	for j, a := range t.attributes {
		if a.Name == name {
			return j, true
		}
	}
	return -1, false
}

// DecisionAttribute returns the index of the active decision attribute.
//
// When there are many, the first one is used.
func (t *Table) DecisionAttribute() (int, bool) {
	for j, a := range t.attributes {
		if a.Active && !a.IsIdentification() && a.Type == Decision {
			return j, true
		}
	}
	return -1, false
}

// Decision returns the decision of i-th object, or MissingValue.
func (t *Table) Decision(i int) string {
	d, ok := t.DecisionAttribute()
	if !ok {
		return MissingValue
	}
	return t.rows[i][d]
}

func (t *Table) Decisions() []string {
	ds := make([]string, len(t.rows))
	for i := range t.rows {
		ds[i] = t.Decision(i)
	}
	return ds
}

// OrderedDecisions returns distinct non-missing decisions, ordered by
// preference of the decision attribute (the worst first).
func (t *Table) OrderedDecisions() []string {
	d, ok := t.DecisionAttribute()
	if !ok {
		return []string{}
	}
	attr := t.attributes[d]

	seen := map[string]struct{}{}
	decisions := []string{}
	for _, r := range t.rows {
		v := r[d]
		if v == MissingValue {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		decisions = append(decisions, v)
	}

	rank := rankOf(attr)
	sort.SliceStable(decisions, func(i, j int) bool {
		ri, rj := rank(decisions[i]), rank(decisions[j])
		if attr.PreferenceType == Cost {
			return rj < ri
		}
		return ri < rj
	})
	return decisions
}

func rankOf(attr Attribute) func(string) float64 {
	if attr.ValueType == Enumeration {
		pos := map[string]float64{}
		for i, v := range attr.Domain {
			pos[v] = float64(i)
		}
		return func(v string) float64 { return pos[v] }
	}
	return func(v string) float64 {
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
}

// Select creates a table consisting of objects at the indices, in the order.
func (t *Table) Select(indices []int) *Table {
	sub := &Table{
		attributes: t.attributes,
		rows:       make([][]string, len(indices)),
	}
	for n, i := range indices {
		sub.rows[n] = t.rows[i]
	}
	return sub
}

// Refit creates a table with new attributes and the objects of this table.
//
// Values are carried over by attribute name; attributes which are new get
// missing values.
func (t *Table) Refit(attrs []Attribute) (*Table, error) {
	if err := ValidateAttributes(attrs); err != nil {
		return nil, err
	}
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		row := make([]string, len(attrs))
		for j, a := range attrs {
			if k, ok := t.AttributeIndex(a.Name); ok {
				row[j] = r[k]
			} else {
				row[j] = MissingValue
			}
		}
		rows[i] = row
	}
	return build(attrs, rows)
}

// DescriptiveAttributes returns names of attributes usable as object names.
func (t *Table) DescriptiveAttributes() []string {
	names := []string{}
	for _, a := range t.attributes {
		if a.IsDescriptive() {
			names = append(names, a.Name)
		}
	}
	return names
}

// Hash digests attributes and values.
func (t *Table) Hash() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	enc.Encode(t.attributes)
	enc.Encode(t.rows)
	return hex.EncodeToString(h.Sum(nil))
}

// MarshalJSON writes the table as {"attributes": [...], "objects": [{...}]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Attributes []Attribute         `json:"attributes"`
		Objects    []map[string]string `json:"objects"`
	}{
		Attributes: t.Attributes(),
		Objects:    t.Objects(),
	})
}
