package discover_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecontract/contracterr"
	"typecontract/discover"
)

type point struct{ X, Y int }

func newPoint(x, y int) point { panic("not implemented") }

func newPointPtr(x, y int) (*point, error) {
	if x < 0 {
		return nil, errors.New("negative x")
	}

	return &point{X: x, Y: y}, nil
}

func variadic(xs ...int) point       { panic("not implemented") }
func scalar(x int) int               { panic("not implemented") }
func twoResults(x int) (point, bool) { panic("not implemented") }
func doublePtr() **point             { panic("not implemented") }

func ExampleParseConstructor() {
	desc, err := discover.ParseConstructor(newPoint, discover.Param("x"), discover.Param("y"))
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Type.Name(), desc.Pointer, desc.HasErr, len(desc.Params))

	desc, err = discover.ParseConstructor(newPointPtr, discover.Param("x"), discover.ParamDefault("y", 7))
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Type.Name(), desc.Pointer, desc.HasErr, len(desc.Params))

	_, err = discover.ParseConstructor(scalar, discover.Param("x"))
	fmt.Println(err)

	_, err = discover.ParseConstructor(newPoint, discover.Param("x"))
	fmt.Println(err)

	// Output:
	// <nil> discover_test newPoint point false false 2
	// <nil> discover_test newPointPtr point true true 2
	// contract: invalid constructor: type int: function is not a recognizable constructor
	// contract: invalid constructor: type discover_test.point: parameter names do not match the function arity: 1 names for 2 parameters
}

func TestParseConstructor_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		fn     any
		params []discover.ParamSpec
		want   error
	}{
		{"nil", nil, nil, discover.ErrNotAFunction},
		{"not a func", 42, nil, discover.ErrNotAFunction},
		{"variadic", variadic, []discover.ParamSpec{discover.Param("xs")}, discover.ErrVariadic},
		{"second result not error", twoResults, []discover.ParamSpec{discover.Param("x")}, discover.ErrNotAConstructor},
		{"double pointer", doublePtr, nil, discover.ErrDoublePointer},
		{"unnamed", newPoint, []discover.ParamSpec{discover.Param("x"), discover.Param("")}, discover.ErrParamCount},
		{
			"bad default", newPoint,
			[]discover.ParamSpec{discover.Param("x"), discover.ParamDefault("y", "seven")},
			discover.ErrDefaultNotAssign,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := discover.ParseConstructor(tt.fn, tt.params...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, contracterr.InvalidConstructor)
		})
	}
}

func TestConstructor_Call(t *testing.T) {
	desc, err := discover.ParseConstructor(newPointPtr, discover.Param("x"), discover.ParamDefault("y", 7))
	require.NoError(t, err)

	v, err := desc.Call([]reflect.Value{reflect.ValueOf(1), desc.Arg(1)})
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 7}, v.Interface())

	assert.Equal(t, 0, desc.Arg(0).Interface())

	_, err = desc.Call([]reflect.Value{reflect.ValueOf(-1), reflect.ValueOf(0)})
	assert.EqualError(t, err, "negative x")
}
