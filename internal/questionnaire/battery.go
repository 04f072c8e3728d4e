package questionnaire

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed battery.yaml
var defaultBatteryYAML []byte

// Battery is the fixed, ordered question sequence. It is immutable after
// construction and safe to share between sessions.
type Battery struct {
	questions []Question
	index     map[string]int
}

type batteryFile struct {
	Questions []Question `yaml:"questions"`
}

var (
	defaultOnce    sync.Once
	defaultBattery *Battery
)

// DefaultBattery returns the embedded 42-question risk prediction battery.
// It panics if the embedded definition is invalid, which is a build defect.
func DefaultBattery() *Battery {
	defaultOnce.Do(func() {
		b, err := LoadBattery(defaultBatteryYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded battery: %v", err))
		}
		defaultBattery = b
	})
	return defaultBattery
}

// LoadBattery parses and validates a YAML battery definition.
// Questions without a kind are five-level scale questions.
func LoadBattery(data []byte) (*Battery, error) {
	var f batteryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse battery: %w", err)
	}
	return NewBattery(f.Questions)
}

// NewBattery validates questions and builds a Battery from them.
func NewBattery(questions []Question) (*Battery, error) {
	qs := make([]Question, len(questions))
	for i, q := range questions {
		if q.Kind == "" {
			q.Kind = KindScale
		}
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}

	if err := validateQuestions(qs); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(qs))
	for i, q := range qs {
		index[q.ID] = i
	}
	return &Battery{questions: qs, index: index}, nil
}

// validateQuestions returns every structural problem found, joined.
func validateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return errors.New("battery has no questions")
	}

	var errs []string
	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		if strings.TrimSpace(q.ID) == "" {
			errs = append(errs, fmt.Sprintf("question %d has no id", i+1))
			continue
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question id: %q", q.ID))
		}
		seen[q.ID] = true

		switch q.Kind {
		case KindSelect:
			if len(q.Options) == 0 {
				errs = append(errs, fmt.Sprintf("select question %q has no options", q.ID))
			}
		case KindNumber, KindScale:
			if len(q.Options) > 0 {
				errs = append(errs, fmt.Sprintf("%s question %q must not list options", q.Kind, q.ID))
			}
		default:
			errs = append(errs, fmt.Sprintf("question %q has unknown kind %q", q.ID, q.Kind))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid battery:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Len returns the number of questions.
func (b *Battery) Len() int {
	return len(b.questions)
}

// At returns the question at position i. It panics if i is out of range.
func (b *Battery) At(i int) Question {
	return b.questions[i]
}

// Lookup returns the question with the given id.
func (b *Battery) Lookup(id string) (Question, bool) {
	i, ok := b.index[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i], true
}

// Questions returns a copy of the ordered sequence.
func (b *Battery) Questions() []Question {
	return append([]Question(nil), b.questions...)
}

// IDs returns question ids in presentation order.
func (b *Battery) IDs() []string {
	ids := make([]string, len(b.questions))
	for i, q := range b.questions {
		ids[i] = q.ID
	}
	return ids
}

// Sections returns section labels in first-appearance order.
func (b *Battery) Sections() []string {
	var out []string
	seen := make(map[string]bool)
	for _, q := range b.questions {
		if !seen[q.Section] {
			seen[q.Section] = true
			out = append(out, q.Section)
		}
	}
	return out
}
