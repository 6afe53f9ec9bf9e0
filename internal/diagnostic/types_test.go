package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecontract/contracterr"
)

func TestCode(t *testing.T) {
	assert.Equal(t, "duplicate_property_name", Code(contracterr.DuplicatePropertyName))
	assert.Equal(t, "unknown_polymorphic_discriminator", Code(contracterr.UnknownPolymorphicDiscriminator))
}

func TestDiagnostics_AddFailure(t *testing.T) {
	var d Diagnostics

	err := fmt.Errorf("configure: %w", contracterr.New(contracterr.DuplicatePropertyName, "shapes.Circle", "r", "claimed by Radius and R"))
	d.AddFailure(err, "load_failed", "ignored")
	d.AddFailure(errors.New("boom"), "load_failed", "shapes.Square")

	require.Len(t, d.Errors, 2)
	assert.Equal(t, Diagnostic{
		Severity: SeverityError,
		Code:     "duplicate_property_name",
		Message:  "claimed by Radius and R",
		Type:     "shapes.Circle",
		Member:   "r",
	}, d.Errors[0])
	assert.Equal(t, "load_failed", d.Errors[1].Code)
	assert.Equal(t, "shapes.Square", d.Errors[1].Type)
	assert.False(t, d.IsValid())
}

func TestDiagnostics_String(t *testing.T) {
	var d Diagnostics

	d.AddError("unknown_type", "type not found", "shapes.Cirle", "")
	d.AddSuggestion("shapes.Circle")
	d.AddWarning("unbound_parameter", "parameter has no property", "shapes.Circle", "radius")

	assert.Equal(t, `[shapes.Cirle]: [unknown_type] type not found (did you mean "shapes.Circle"?)`, d.Errors[0].String())
	assert.Equal(t, "[shapes.Circle] radius: [unbound_parameter] parameter has no property", d.Warnings[0].String())
	assert.EqualError(t, d.Error(), d.Errors[0].String())
	assert.Len(t, d.All(), 2)
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "unknown", Severity(7).String())
}

func TestDiagnostics_SortAndMerge(t *testing.T) {
	var a, b Diagnostics

	a.AddError("x", "", "b.T", "")
	b.AddError("x", "", "a.T", "Z")
	b.AddError("x", "", "a.T", "A")
	a.Merge(b)
	a.Sort()

	got := make([]string, 0, len(a.Errors))
	for _, e := range a.Errors {
		got = append(got, e.Type+"."+e.Member)
	}

	assert.Equal(t, []string{"a.T.A", "a.T.Z", "b.T."}, got)
}
