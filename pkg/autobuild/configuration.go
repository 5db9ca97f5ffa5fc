package autobuild

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Configuration holds at most one part per category. It is a plain value:
// assignment copies, so Clone is just a copy and the builder can pass a
// pointer down its recursion without aliasing concerns.
type Configuration struct {
	slots [categoryCount]Part
}

// Assign places p into category c, replacing any current occupant.
func (cfg *Configuration) Assign(c Category, p Part) {
	p.Category = c
	cfg.slots[c] = p
}

// Unassign empties category c.
func (cfg *Configuration) Unassign(c Category) {
	cfg.slots[c] = Part{}
}

// Get returns the part assigned to c.
func (cfg Configuration) Get(c Category) (Part, bool) {
	if !c.Valid() {
		return Part{}, false
	}
	p := cfg.slots[c]
	return p, !p.IsZero()
}

func (cfg Configuration) Has(c Category) bool {
	_, ok := cfg.Get(c)
	return ok
}

// IsComplete reports whether every required category holds a part.
func (cfg Configuration) IsComplete() bool {
	for _, c := range BuildOrder {
		if c.Required() && !cfg.Has(c) {
			return false
		}
	}
	return true
}

// Assigned lists the filled categories in build order.
func (cfg Configuration) Assigned() []Category {
	out := make([]Category, 0, categoryCount)
	for _, c := range BuildOrder {
		if cfg.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Missing lists the required categories that are still empty.
func (cfg Configuration) Missing() []Category {
	var out []Category
	for _, c := range BuildOrder {
		if c.Required() && !cfg.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (cfg Configuration) Len() int {
	return len(cfg.Assigned())
}

func (cfg Configuration) TotalCost() int64 {
	var total int64
	for _, p := range cfg.slots {
		total += p.Price
	}
	return total
}

func (cfg Configuration) Clone() Configuration {
	return cfg
}

// Equal compares by part name per category.
func (cfg Configuration) Equal(other Configuration) bool {
	for i := range cfg.slots {
		if cfg.slots[i].Name != other.slots[i].Name {
			return false
		}
	}
	return true
}

// Fingerprint is a stable identity used for deduplication.
func (cfg Configuration) Fingerprint() string {
	var b strings.Builder
	for _, c := range BuildOrder {
		b.WriteString(c.String())
		b.WriteByte('=')
		b.WriteString(cfg.slots[c].Name)
		b.WriteByte(';')
	}
	return b.String()
}

func (cfg Configuration) String() string {
	parts := make([]string, 0, categoryCount)
	for _, c := range BuildOrder {
		name := cfg.slots[c].Name
		if name == "" {
			name = "-"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", c, name))
	}
	return strings.Join(parts, " ")
}

// MarshalJSON renders the filled slots as a category keyed object.
func (cfg Configuration) MarshalJSON() ([]byte, error) {
	out := make(map[string]Part, categoryCount)
	for _, c := range cfg.Assigned() {
		out[c.String()] = cfg.slots[c]
	}
	return json.Marshal(out)
}

func (cfg *Configuration) UnmarshalJSON(b []byte) error {
	var in map[string]Part
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*cfg = Configuration{}
	for name, p := range in {
		c, err := ParseCategory(name)
		if err != nil {
			return err
		}
		cfg.Assign(c, p)
	}
	return nil
}
