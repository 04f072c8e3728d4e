package questionnaire

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrUnknownQuestion is returned when an answer names an id outside the battery.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrValueOutOfRange is returned for a select or scale value outside its domain.
	ErrValueOutOfRange = errors.New("answer out of range")
)

// AnswerSet maps every question id of a battery to an integer response.
// Its key set is fixed at construction: exactly the battery's ids, all 0.
type AnswerSet struct {
	battery *Battery
	values  map[string]int
}

// NewAnswerSet returns an AnswerSet with a zero entry for every question.
func NewAnswerSet(b *Battery) *AnswerSet {
	values := make(map[string]int, b.Len())
	for _, id := range b.IDs() {
		values[id] = 0
	}
	return &AnswerSet{battery: b, values: values}
}

// Set stores v for question id. Only that key changes.
func (a *AnswerSet) Set(id string, v int) error {
	q, ok := a.battery.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if !q.Accepts(v) {
		hi, _ := q.MaxValue()
		return fmt.Errorf("%w: %s=%d (want 0-%d)", ErrValueOutOfRange, id, v, hi)
	}
	a.values[id] = v
	return nil
}

// Get returns the stored value for id.
func (a *AnswerSet) Get(id string) (int, bool) {
	v, ok := a.values[id]
	return v, ok
}

// Len returns the number of keys, always the battery length.
func (a *AnswerSet) Len() int {
	return len(a.values)
}

// Map returns a copy of the answers keyed by question id.
func (a *AnswerSet) Map() map[string]int {
	return maps.Clone(a.values)
}

// Apply sets several answers at once. Nothing is applied if any entry is
// rejected.
func (a *AnswerSet) Apply(values map[string]int) error {
	for id, v := range values {
		q, ok := a.battery.Lookup(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
		if !q.Accepts(v) {
			hi, _ := q.MaxValue()
			return fmt.Errorf("%w: %s=%d (want 0-%d)", ErrValueOutOfRange, id, v, hi)
		}
	}
	maps.Copy(a.values, values)
	return nil
}

// MarshalJSON encodes the set as a flat object of id to integer.
func (a *AnswerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.values)
}
