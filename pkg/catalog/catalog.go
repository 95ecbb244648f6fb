package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

//go:embed default.yaml
var defaultCatalog []byte

// Event is one catalog entry.
type Event struct {
	Type      string                  `yaml:"type"`
	Priority  *notifications.Priority `yaml:"priority"`
	Templates templates.Set           `yaml:"templates"`
}

// Config returns the registry entry for the event. Priority defaults to normal.
func (e Event) Config() notifications.EventConfig {
	cfg := notifications.EventConfig{Type: e.Type, Priority: notifications.PriorityNormal}
	if e.Priority != nil {
		cfg.Priority = *e.Priority
	}
	return cfg
}

type Catalog struct {
	Events map[string]Event `yaml:"events"`
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks event names, channel names and template sets.
func (c *Catalog) Validate() error {
	if len(c.Events) == 0 {
		return fmt.Errorf("%w: no events", ErrInvalidCatalog)
	}
	for name, ev := range c.Events {
		if name == "" {
			return fmt.Errorf("%w: empty event name", ErrInvalidCatalog)
		}
		if ev.Type == "" {
			return fmt.Errorf("%w: event %q has no type", ErrInvalidCatalog, name)
		}
		if ev.Templates == nil {
			continue
		}
		for ch := range ev.Templates {
			if !notifications.Channel(ch).Valid() {
				return fmt.Errorf("%w: event %q: unknown channel %q", ErrInvalidCatalog, name, ch)
			}
		}
		if err := ev.Templates.Validate(); err != nil {
			return fmt.Errorf("%w: event %q: %w", ErrInvalidCatalog, name, err)
		}
	}
	return nil
}

// Names returns the event names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Events))
	for n := range c.Events {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

type EventRegistrar interface {
	Register(event string, cfg notifications.EventConfig) error
}

type TemplateRegistrar interface {
	Register(event string, set templates.Set) error
}

// Apply registers every event, and the templates of events that have them.
// tpl may be nil.
func (c *Catalog) Apply(reg EventRegistrar, tpl TemplateRegistrar) error {
	for _, name := range c.Names() {
		ev := c.Events[name]
		if err := reg.Register(name, ev.Config()); err != nil {
			return fmt.Errorf("register event %q: %w", name, err)
		}
		if tpl == nil || ev.Templates == nil {
			continue
		}
		if err := tpl.Register(name, ev.Templates); err != nil {
			return fmt.Errorf("register templates for %q: %w", name, err)
		}
	}
	return nil
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return Parse(data)
}

// Load picks the source described by cfg.
func Load(ctx context.Context, cfg Config, opts ...S3Option) (*Catalog, error) {
	switch {
	case cfg.S3Bucket != "":
		return LoadS3(ctx, cfg, opts...)
	case cfg.Path != "":
		return LoadFile(cfg.Path)
	default:
		return Default()
	}
}
