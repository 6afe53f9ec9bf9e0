package discover

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"typecontract/contracterr"
	"typecontract/resolve"
	"typecontract/utils"
)

var (
	ErrNotAFunction     = errors.New("constructor is not a function")
	ErrNotAConstructor  = errors.New("function is not a recognizable constructor")
	ErrVariadic         = errors.New("variadic constructors are not supported")
	ErrDoublePointer    = errors.New("constructor does not support double pointers")
	ErrParamCount       = errors.New("parameter names do not match the function arity")
	ErrDefaultNotAssign = errors.New("default value is not assignable to the parameter")
)

var errorType = reflect.TypeFor[error]()

// ParamSpec names one constructor parameter. Go keeps no parameter names at
// runtime, so they are supplied at registration, in order.
type ParamSpec struct {
	Name       string
	HasDefault bool
	Default    any
}

// Param names a parameter without a default: when the document has no
// value for it the zero value is used.
func Param(name string) ParamSpec { return ParamSpec{Name: name} }

// ParamDefault names a parameter and its default value.
func ParamDefault(name string, value any) ParamSpec {
	return ParamSpec{Name: name, HasDefault: true, Default: value}
}

// Constructor is a parsed constructor function.
type Constructor struct {
	Func         reflect.Value
	Type         reflect.Type // the constructed type, pointers removed
	Pointer      bool         // the function returns *Type
	PackageAlias string
	Name         string
	HasErr       bool
	Params       []resolve.ParamDescriptor[reflect.Type]
}

// ParseConstructor inspects fn and returns a Constructor if it is a valid
// constructor function.
//
// Supports signatures:
//   - func(args...) T
//   - func(args...) *T
//   - func(args...) (T, error)
//   - func(args...) (*T, error)
func ParseConstructor(fn any, params ...ParamSpec) (*Constructor, error) {
	if fn == nil {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, "<nil>", ErrNotAFunction)
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, fnType.String(), ErrNotAFunction)
	}

	if fnType.NumOut() == 0 || fnType.NumOut() > 2 {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, fnType.String(), ErrNotAConstructor)
	}

	dst := fnType.Out(0)
	ctor := &Constructor{Func: fnVal, Type: dst}

	if dst.Kind() == reflect.Pointer {
		if dst.Elem().Kind() == reflect.Pointer {
			return nil, contracterr.Wrap(contracterr.InvalidConstructor, dst.String(), ErrDoublePointer)
		}

		ctor.Type = dst.Elem()
		ctor.Pointer = true
	}

	typeName := ctor.Type.String()

	if ctor.Type.Kind() != reflect.Struct {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName, ErrNotAConstructor)
	}

	if fnType.NumOut() == 2 {
		if fnType.Out(1) != errorType {
			return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName, ErrNotAConstructor)
		}

		ctor.HasErr = true
	}

	if fnType.IsVariadic() {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName, ErrVariadic)
	}

	if len(params) != fnType.NumIn() {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName,
			fmt.Errorf("%w: %d names for %d parameters", ErrParamCount, len(params), fnType.NumIn()))
	}

	for i, spec := range params {
		in := fnType.In(i)

		if spec.Name == "" {
			return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName,
				fmt.Errorf("%w: parameter %d has no name", ErrParamCount, i))
		}

		if spec.HasDefault && spec.Default != nil && !reflect.TypeOf(spec.Default).AssignableTo(in) {
			return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName,
				fmt.Errorf("%w: %s (%T) for %s", ErrDefaultNotAssign, spec.Name, spec.Default, in))
		}

		ctor.Params = append(ctor.Params, resolve.ParamDescriptor[reflect.Type]{
			Name:       spec.Name,
			Type:       in,
			HasDefault: spec.HasDefault,
			Default:    spec.Default,
		})
	}

	if fnPC := runtime.FuncForPC(fnVal.Pointer()); fnPC != nil {
		// "example.com/pkg/shapes.NewCircle" -> "shapes", "NewCircle"
		ctor.PackageAlias, ctor.Name = utils.Unpack2(strings.SplitN(utils.Second(path.Split(fnPC.Name())), ".", 2))
	}

	return ctor, nil
}

// Call invokes the constructor and returns the constructed value of Type.
func (c *Constructor) Call(args []reflect.Value) (reflect.Value, error) {
	out := c.Func.Call(args)

	if c.HasErr && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	v := out[0]
	if c.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("constructor %s returned nil", c.Name)
		}

		v = v.Elem()
	}

	return v, nil
}

// Arg returns the value passed for parameter i when the document has none.
func (c *Constructor) Arg(i int) reflect.Value {
	p := c.Params[i]
	if p.HasDefault && p.Default != nil {
		return reflect.ValueOf(p.Default).Convert(p.Type)
	}

	return reflect.Zero(p.Type)
}
