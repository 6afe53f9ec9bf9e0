package contracterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	err := New(DuplicatePropertyName, "shapes.Circle", "radius", "members Radius and R")

	assert.ErrorIs(t, err, DuplicatePropertyName)
	assert.NotErrorIs(t, err, AmbiguousConstructorBinding)

	wrapped := fmt.Errorf("configuring: %w", err)
	assert.ErrorIs(t, wrapped, DuplicatePropertyName)

	var ce *Error
	require.ErrorAs(t, wrapped, &ce)
	assert.Equal(t, "shapes.Circle", ce.Type)
	assert.Equal(t, "radius", ce.Member)
}

func TestError_Message(t *testing.T) {
	err := New(DuplicatePropertyName, "shapes.Circle", "radius", "")
	assert.Equal(t, `contract: duplicate property name: type shapes.Circle: member "radius"`, err.Error())

	cause := errors.New("boom")
	err = Wrap(InvalidConstructor, "shapes.Circle", cause)
	assert.Equal(t, "contract: invalid constructor: type shapes.Circle: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, InvalidConstructor)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, TypeInfoImmutable, KindOf(TypeInfoImmutable))
	assert.Equal(t, UnsupportedType, KindOf(fmt.Errorf("x: %w", New(UnsupportedType, "chan int", "", ""))))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "UnsupportedType", UnsupportedType.String())
	assert.Equal(t, "UnmappedMember", UnmappedMember.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
	assert.Equal(t, 14, KindTotal)
}
