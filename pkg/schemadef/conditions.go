package schemadef

import (
	"sync"

	"github.com/aretw0/sieve/pkg/schema"
)

// Decoder turns definition documents into schema nodes. Conditions are Go
// code that documents reference by name; the zero set is empty, so a Decoder
// only understands the conditions registered on it. A Decoder is safe for
// concurrent use.
type Decoder struct {
	mu         sync.RWMutex
	conditions map[string]schema.Condition
}

// NewDecoder creates a Decoder with no registered conditions.
func NewDecoder() *Decoder {
	return &Decoder{conditions: make(map[string]schema.Condition)}
}

// RegisterCondition makes cond available to definitions under name.
// Registering an existing name overwrites it.
func (d *Decoder) RegisterCondition(name string, cond schema.Condition) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conditions[name] = cond
}

// Condition looks up a registered condition by name.
func (d *Decoder) Condition(name string) (schema.Condition, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cond, ok := d.conditions[name]
	return cond, ok
}

// ConditionNames lists the registered condition names, in no particular
// order.
func (d *Decoder) ConditionNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.conditions))
	for name := range d.conditions {
		names = append(names, name)
	}
	return names
}
