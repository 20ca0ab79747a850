package crossvalidation

import (
	"strings"
	"sync"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
)

// DescriptiveAttributes is attributes which can name objects, and the one
// currently chosen.
type DescriptiveAttributes struct {
	mu        sync.RWMutex
	available []string
	current   string
}

// NewDescriptiveAttributes collects descriptive attributes of table.
//
// An identification attribute is chosen by default. Otherwise, the first
// description attribute is, if any.
func NewDescriptiveAttributes(table *infotable.Table) *DescriptiveAttributes {
	d := &DescriptiveAttributes{available: table.DescriptiveAttributes()}
	for _, a := range table.Attributes() {
		if a.IsIdentification() && a.Active {
			d.current = a.Name
			return d
		}
	}
	if 0 < len(d.available) {
		d.current = d.available[0]
	}
	return d
}

func (d *DescriptiveAttributes) Available() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string{}, d.available...)
}

// Current returns the chosen attribute. ok is false when nothing is chosen.
func (d *DescriptiveAttributes) Current() (name string, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current, d.current != ""
}

// SetCurrent chooses an attribute. Empty name clears the choice.
func (d *DescriptiveAttributes) SetCurrent(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if name == "" {
		d.current = ""
		return nil
	}
	for _, a := range d.available {
		if a == name {
			d.current = name
			return nil
		}
	}
	return kerr.WrongParameter(
		"Attribute \"%s\" can't name objects. Choose from: %s",
		name, strings.Join(d.available, ", "),
	)
}
