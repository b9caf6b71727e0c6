// Package replay plays scripted toast scenarios through the toaster, the
// toast store and the deadline scheduler, reporting what a viewer would
// have seen.
package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/toaster/internal/core/notify"
)

// Script is a timeline of steps, each applied at an offset from the start
// of the run.
type Script struct {
	// Until extends the run past the last step. Zero runs until no toast
	// is waiting to expire.
	Until time.Duration `yaml:"until"`
	Steps []Step        `yaml:"steps"`
}

// Step performs exactly one action at its offset.
type Step struct {
	At      time.Duration `yaml:"at"`
	Publish *Publish      `yaml:"publish,omitempty"`
	Close   *uint64       `yaml:"close,omitempty"`
	Note    string        `yaml:"note,omitempty"`
	Mount   bool          `yaml:"mount,omitempty"`
	Unmount bool          `yaml:"unmount,omitempty"`
}

// Publish describes the notification a step hands to the toaster.
type Publish struct {
	Title    string          `yaml:"title"`
	Kind     notify.Kind     `yaml:"kind"`
	Lifetime time.Duration   `yaml:"lifetime"`
	Body     string          `yaml:"body"`
	Actions  []notify.Action `yaml:"actions"`
}

// Notification converts p into the value published to the toaster.
func (p Publish) Notification() notify.Notification {
	kind, err := notify.ParseKind(string(p.Kind))
	if err != nil {
		kind = notify.KindDefault
	}

	n := notify.New(p.Title).
		WithKind(kind).
		WithLifetime(p.Lifetime).
		WithBody(p.Body)
	if len(p.Actions) > 0 {
		n = n.WithActions(p.Actions...)
	}
	return n
}

func (s Step) actions() int {
	n := 0
	if s.Publish != nil {
		n++
	}
	if s.Close != nil {
		n++
	}
	if s.Note != "" {
		n++
	}
	if s.Mount {
		n++
	}
	if s.Unmount {
		n++
	}
	return n
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// Validate checks that steps are in time order and each does one thing.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return criterio.NewFieldErrors("steps", errors.New("array is empty"))
	}

	var (
		errs criterio.FieldErrorsBuilder
		last time.Duration
	)

	for i, step := range s.Steps {
		field := fmt.Sprintf("steps[%d]", i)

		switch {
		case step.At < 0:
			errs = errs.Append(field+".at", fmt.Errorf("must not be negative, got %s", step.At))
		case step.At < last:
			errs = errs.Append(field+".at", fmt.Errorf("%s is before the previous step at %s", step.At, last))
		default:
			last = step.At
		}

		if n := step.actions(); n != 1 {
			errs = errs.Append(field, fmt.Errorf("expected exactly one of publish, close, note, mount, unmount; got %d", n))
			continue
		}

		if p := step.Publish; p != nil {
			if p.Title == "" {
				errs = errs.Append(field+".publish.title", errors.New("must not be empty"))
			}
			if !p.Kind.IsValid() {
				errs = errs.Append(field+".publish.kind", fmt.Errorf("unknown kind %q", p.Kind))
			}
		}
	}

	if s.Until != 0 && s.Until < last {
		errs = errs.Append("until", fmt.Errorf("%s is before the last step at %s", s.Until, last))
	}

	return errs.ToError()
}
