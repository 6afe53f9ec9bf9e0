package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the root of a contract configuration file.
type File struct {
	// Version is the schema version. Default "1".
	Version string `yaml:"version"`
	// NamingPolicy is a naming.ByName policy name.
	NamingPolicy string `yaml:"naming_policy,omitempty"`
	// UnmappedMembers is "skip" (default) or "disallow".
	UnmappedMembers string `yaml:"unmapped_members,omitempty"`
	// NumberHandling lists "allow_reading_from_string" and/or "write_as_string".
	NumberHandling []string `yaml:"number_handling,omitempty"`
	// Polymorphism declares polymorphic hierarchies, one per base type.
	Polymorphism []Polymorphism `yaml:"polymorphism,omitempty"`
	// Types holds per-type overrides keyed by type name.
	Types map[string]Type `yaml:"types,omitempty"`
}

// Polymorphism declares the derived types of one base type.
type Polymorphism struct {
	Base string `yaml:"base"`
	// Discriminator is the discriminator property. Default "$type".
	Discriminator        string        `yaml:"discriminator,omitempty"`
	UnknownDerivedType   UnknownPolicy `yaml:"unknown_derived_type,omitempty"`
	UnknownDiscriminator UnknownPolicy `yaml:"unknown_discriminator,omitempty"`
	// Derived maps discriminator values to type names.
	Derived map[string]string `yaml:"derived"`
}

// UnknownPolicy is how an unregistered runtime type or discriminator is
// handled.
type UnknownPolicy string

const (
	PolicyFail           UnknownPolicy = "fail"
	PolicyFallBackToBase UnknownPolicy = "fallback_to_base"
)

// Type overrides discovery for one type.
type Type struct {
	Constructor *Constructor `yaml:"constructor,omitempty"`
	// Members are keyed by Go member name.
	Members map[string]Member `yaml:"members,omitempty"`
}

// Constructor names a registered function and its parameter names.
type Constructor struct {
	Func   string  `yaml:"func"`
	Params []Param `yaml:"params,omitempty"`
}

// Param is a constructor parameter: a bare name, or a mapping with a name
// and a default.
type Param struct {
	Name       string
	HasDefault bool
	Default    any
}

// Member overrides the discovered effect of one member.
type Member struct {
	Name      string `yaml:"name,omitempty"`
	Ignore    bool   `yaml:"ignore,omitempty"`
	Include   bool   `yaml:"include,omitempty"`
	Converter string `yaml:"converter,omitempty"`
	Order     int    `yaml:"order,omitempty"`
}

type paramMapping struct {
	Name    string     `yaml:"name"`
	Default *yaml.Node `yaml:"default,omitempty"`
}

// UnmarshalYAML accepts either a parameter name or {name, default}.
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = Param{}
		return node.Decode(&p.Name)

	case yaml.MappingNode:
		var m paramMapping

		if err := node.Decode(&m); err != nil {
			return err
		}

		*p = Param{Name: m.Name}

		if m.Default != nil {
			p.HasDefault = true
			if err := m.Default.Decode(&p.Default); err != nil {
				return err
			}
		}

		return nil

	default:
		return fmt.Errorf("line %d: expected parameter name or mapping, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes a parameter without a default as its bare name.
func (p Param) MarshalYAML() (any, error) {
	if !p.HasDefault {
		return p.Name, nil
	}

	return map[string]any{"name": p.Name, "default": p.Default}, nil
}
