package questionnaire

// Kind is the input affordance a question needs.
type Kind string

const (
	KindNumber Kind = "number" // Free integer entry, not range-checked
	KindSelect Kind = "select" // 1-based option index, 0 = not selected
	KindScale  Kind = "scale"  // Five-level ordinal, stored 0-4
)

// ScaleLevels are the labels of the five ordinal levels, indexed by stored value.
var ScaleLevels = [...]string{
	"Never / Not at all",
	"Rarely / A little",
	"Sometimes / Moderately",
	"Often / Severely",
	"Always / Extremely",
}

// Unselected is the placeholder label for a select question with value 0.
const Unselected = "-- Select --"

// Question is a single immutable entry of the battery.
type Question struct {
	ID      string   `yaml:"id"`
	Prompt  string   `yaml:"prompt"`
	Section string   `yaml:"section"`
	Kind    Kind     `yaml:"kind"`
	Options []string `yaml:"options,omitempty"`
}

// MaxValue returns the largest storable value for bounded kinds.
// The second return is false for KindNumber, which has no bound.
func (q Question) MaxValue() (int, bool) {
	switch q.Kind {
	case KindSelect:
		return len(q.Options), true
	case KindScale:
		return len(ScaleLevels) - 1, true
	default:
		return 0, false
	}
}

// Accepts reports whether v is a storable answer for this question.
func (q Question) Accepts(v int) bool {
	hi, bounded := q.MaxValue()
	if !bounded {
		return true
	}
	return v >= 0 && v <= hi
}

// Choices returns the labels a picker should offer, indexed by stored value.
// Nil for KindNumber.
func (q Question) Choices() []string {
	switch q.Kind {
	case KindSelect:
		out := make([]string, 0, len(q.Options)+1)
		out = append(out, Unselected)
		return append(out, q.Options...)
	case KindScale:
		return ScaleLevels[:]
	default:
		return nil
	}
}

// Label renders a stored value the way the picker shows it.
func (q Question) Label(v int) string {
	choices := q.Choices()
	if choices == nil || v < 0 || v >= len(choices) {
		return ""
	}
	return choices[v]
}
