// Package props is a small typed property set: named parameters declared
// with a default value and a description, then optionally overridden by the
// caller before a stage runs. It is the configuration surface the pipeline
// presents to stages.
package props

import (
	"errors"
	"fmt"
)

// ErrUnknownProperty is returned for get/set of a name never declared.
var ErrUnknownProperty = errors.New("unknown property")

type kind int

const (
	kindString kind = iota
	kindFloat
	kindAny
)

type property struct {
	kind        kind
	description string
	value       any
}

// Set holds declared properties and their current values.
type Set struct {
	props map[string]*property
}

// NewSet returns an empty property set.
func NewSet() *Set {
	return &Set{props: map[string]*property{}}
}

// DeclareString declares a string property with a default and description.
func (s *Set) DeclareString(name, def, description string) {
	s.props[name] = &property{kind: kindString, description: description, value: def}
}

// DeclareFloat declares a float property with a default and description.
func (s *Set) DeclareFloat(name string, def float64, description string) {
	s.props[name] = &property{kind: kindFloat, description: description, value: def}
}

// Declare declares a property holding an arbitrary typed value.
func (s *Set) Declare(name string, def any, description string) {
	s.props[name] = &property{kind: kindAny, description: description, value: def}
}

// SetString overrides a declared string property.
func (s *Set) SetString(name, v string) error {
	p, ok := s.props[name]
	if !ok || p.kind != kindString {
		return fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	p.value = v
	return nil
}

// SetFloat overrides a declared float property.
func (s *Set) SetFloat(name string, v float64) error {
	p, ok := s.props[name]
	if !ok || p.kind != kindFloat {
		return fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	p.value = v
	return nil
}

// Set overrides a declared any-typed property.
func (s *Set) Set(name string, v any) error {
	p, ok := s.props[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	p.value = v
	return nil
}

// String returns the current value of a string property.
func (s *Set) String(name string) (string, error) {
	p, ok := s.props[name]
	if !ok || p.kind != kindString {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	return p.value.(string), nil
}

// Float returns the current value of a float property.
func (s *Set) Float(name string) (float64, error) {
	p, ok := s.props[name]
	if !ok || p.kind != kindFloat {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	return p.value.(float64), nil
}

// Value returns the current value of any declared property.
func (s *Set) Value(name string) (any, error) {
	p, ok := s.props[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownProperty)
	}
	return p.value, nil
}

// Describe returns the declared description of a property, or "".
func (s *Set) Describe(name string) string {
	if p, ok := s.props[name]; ok {
		return p.description
	}
	return ""
}
