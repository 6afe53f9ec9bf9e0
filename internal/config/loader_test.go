package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecontract/polymorph"
)

const shapesYAML = `
naming_policy: snake_case_lower
unmapped_members: disallow
polymorphism:
  - base: config.shape
    discriminator: kind
    derived:
      circle: config.circle
      square: config.square
types:
  config.circle:
    constructor:
      func: newCircle
      params: [radius, {name: unit, default: cm}]
    members:
      Radius: {name: r}
      Secret: {ignore: true}
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(shapesYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version, "version defaults to 1")
	assert.Equal(t, "snake_case_lower", f.NamingPolicy)
	assert.Equal(t, "disallow", f.UnmappedMembers)

	require.Len(t, f.Polymorphism, 1)
	p := f.Polymorphism[0]
	assert.Equal(t, "kind", p.Discriminator)
	assert.Equal(t, PolicyFail, p.UnknownDerivedType)
	assert.Equal(t, PolicyFail, p.UnknownDiscriminator)
	assert.Equal(t, map[string]string{"circle": "config.circle", "square": "config.square"}, p.Derived)

	circle := f.Types["config.circle"]
	require.NotNil(t, circle.Constructor)
	assert.Equal(t, "newCircle", circle.Constructor.Func)
	assert.Equal(t, []Param{
		{Name: "radius"},
		{Name: "unit", HasDefault: true, Default: "cm"},
	}, circle.Constructor.Params)
	assert.Equal(t, Member{Name: "r"}, circle.Members["Radius"])
	assert.True(t, circle.Members["Secret"].Ignore)
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse([]byte(`
polymorphism:
  - base: a.B
    derived: {c: a.C}
`))
	require.NoError(t, err)

	assert.Equal(t, polymorph.DefaultDiscriminatorProperty, f.Polymorphism[0].Discriminator)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("types: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")

	_, err = Parse([]byte(`
types:
  a.B:
    constructor:
      func: f
      params: [[x]]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected parameter name or mapping")
}

func TestWriteFile_RoundTrip(t *testing.T) {
	f, err := Parse([]byte(shapesYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "contracts.yaml")
	require.NoError(t, WriteFile(f, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- radius\n", "bare parameters stay bare")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		codes []string
	}{
		{
			name:  "valid",
			yaml:  shapesYAML,
			codes: nil,
		},
		{
			name:  "unknown naming policy",
			yaml:  "naming_policy: snake_case_lowr",
			codes: []string{"unknown_naming_policy"},
		},
		{
			name:  "bad version and handling",
			yaml:  "version: \"2\"\nunmapped_members: ignore\nnumber_handling: [loose]",
			codes: []string{"unsupported_version", "unknown_unmapped_members", "unknown_number_handling"},
		},
		{
			name: "broken hierarchy",
			yaml: `
polymorphism:
  - derived: {a: x.A}
  - base: x.Base
    unknown_discriminator: guess
    derived: {a: x.A, b: x.A, base: x.Base}
  - base: x.Base
    derived: {}
`,
			codes: []string{
				"invalid_polymorphism_configuration", // no base
				"invalid_polymorphism_configuration", // bad policy
				"invalid_polymorphism_configuration", // x.A twice
				"invalid_polymorphism_configuration", // base as derived
				"invalid_polymorphism_configuration", // base declared twice
				"invalid_polymorphism_configuration", // no derived types
			},
		},
		{
			name: "broken constructor",
			yaml: `
types:
  x.A:
    constructor:
      params: [name, NAME, {default: 1}]
`,
			codes: []string{"invalid_constructor", "ambiguous_constructor_binding", "invalid_constructor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			res := Validate(f)

			var codes []string
			for _, e := range res.Errors {
				codes = append(codes, e.Code)
			}

			assert.Equal(t, tt.codes, codes, "%v", res.Error())
		})
	}
}

func TestValidate_SuggestsPolicy(t *testing.T) {
	res := Validate(&File{Version: "1", NamingPolicy: "snake_case_lowr"})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "snake_case_lower", res.Errors[0].Suggestion)
}

func TestValidate_IgnoredOverrideWarns(t *testing.T) {
	res := Validate(&File{Version: "1", Types: map[string]Type{
		"x.A": {Members: map[string]Member{"B": {Ignore: true, Name: "b"}}},
	}})
	assert.True(t, res.IsValid())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "B", res.Warnings[0].Member)
}
