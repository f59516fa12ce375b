// Package admin declares how entities are exposed to the back office: which
// columns a list shows, which fields are searchable or filterable, and how the
// edit form groups fields.
package admin

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// FieldKind tells the list builder how to select and filter a column
type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindTime
	KindUUID
)

// Field is a column exposed by a registered model
type Field struct {
	Name   string    `json:"name"`
	Column string    `json:"-"`
	Kind   FieldKind `json:"-"`
	// WriteOnly fields appear in forms but never in list output, search or filters
	WriteOnly bool `json:"-"`
}

func (f Field) column() string {
	if f.Column == "" {
		return f.Name
	}
	return f.Column
}

// Choice is one allowed value of a field with its display label
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Fieldset groups fields on the edit form. An empty Name is the untitled group.
// Choices lists the allowed values of fields in the group that take a fixed set.
type Fieldset struct {
	Name    string              `json:"name"`
	Fields  []string            `json:"fields"`
	Choices map[string][]Choice `json:"choices,omitempty"`
}

// ModelAdmin is the back-office descriptor of one entity
type ModelAdmin struct {
	Name         string
	Table        string
	PrimaryKey   string
	Fields       []Field
	ListDisplay  []string
	SearchFields []string
	ListFilter   []string
	Fieldsets    []Fieldset
	// Ordering entries are field names, prefixed with "-" for descending
	Ordering []string
	// SoftDelete hides rows with a deleted_at marker unless the query asks for all rows
	SoftDelete bool
}

func (m *ModelAdmin) field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks that every referenced name is a declared field
func (m *ModelAdmin) Validate() error {
	if m.Name == "" || m.Table == "" {
		return fmt.Errorf("admin: model name and table are required")
	}
	if m.PrimaryKey == "" {
		return fmt.Errorf("admin: %s: primary key is required", m.Name)
	}

	seen := make(map[string]bool, len(m.Fields))
	for _, f := range m.Fields {
		if seen[f.Name] {
			return fmt.Errorf("admin: %s: duplicate field %q", m.Name, f.Name)
		}
		seen[f.Name] = true
	}

	readable := func(section, name string) error {
		f, ok := m.field(name)
		if !ok {
			return fmt.Errorf("admin: %s: %s refers to unknown field %q", m.Name, section, name)
		}
		if f.WriteOnly {
			return fmt.Errorf("admin: %s: %s cannot use write-only field %q", m.Name, section, name)
		}
		return nil
	}

	if err := readable("primary key", m.PrimaryKey); err != nil {
		return err
	}
	for _, name := range m.ListDisplay {
		if err := readable("list_display", name); err != nil {
			return err
		}
	}
	for _, name := range m.SearchFields {
		if err := readable("search_fields", name); err != nil {
			return err
		}
		if f, _ := m.field(name); f.Kind != KindString {
			return fmt.Errorf("admin: %s: search field %q must be a text field", m.Name, name)
		}
	}
	for _, name := range m.ListFilter {
		if err := readable("list_filter", name); err != nil {
			return err
		}
	}
	for _, name := range m.Ordering {
		if err := readable("ordering", strings.TrimPrefix(name, "-")); err != nil {
			return err
		}
	}
	for _, fs := range m.Fieldsets {
		for _, name := range fs.Fields {
			if _, ok := m.field(name); !ok {
				return fmt.Errorf("admin: %s: fieldset %q refers to unknown field %q", m.Name, fs.Name, name)
			}
		}
		for name := range fs.Choices {
			if !slices.Contains(fs.Fields, name) {
				return fmt.Errorf("admin: %s: fieldset %q has choices for field %q it does not hold", m.Name, fs.Name, name)
			}
		}
	}

	return nil
}

// Site is the registry of back-office models
type Site struct {
	mu     sync.RWMutex
	models []*ModelAdmin
}

func NewSite() *Site {
	return &Site{}
}

// Register validates and adds a model. Names must be unique.
func (s *Site) Register(m ModelAdmin) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.models {
		if existing.Name == m.Name {
			return fmt.Errorf("admin: model %q is already registered", m.Name)
		}
	}

	s.models = append(s.models, &m)
	return nil
}

// MustRegister is Register for package-level wiring where a bad descriptor is a programming error
func (s *Site) MustRegister(m ModelAdmin) {
	if err := s.Register(m); err != nil {
		panic(err)
	}
}

// Get returns the registered model with the given name
func (s *Site) Get(name string) (*ModelAdmin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Models returns the registered models in registration order
func (s *Site) Models() []*ModelAdmin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.models)
}
