// Package converter resolves which converter is responsible for a type and
// the scalar shape (strategy) that converter serializes it as.
package converter

import (
	"reflect"
)

//go:generate go tool stringer -type=Strategy -trimprefix=Strategy -output=strategy_string.go

// Strategy is the shape a converter reads and writes.
type Strategy int

const (
	StrategyUnsupported Strategy = iota
	StrategyObject
	StrategyEnumerable
	StrategyDictionary
	StrategyValue
)

// Converter is implemented by built-in and user-registered converters.
type Converter interface {
	Strategy() Strategy
}

// ValueConverter is implemented by converters that encode a Value-strategy
// type themselves instead of leaving it to the token layer.
type ValueConverter interface {
	Converter
	MarshalValue(v reflect.Value) ([]byte, error)
	UnmarshalValue(data []byte, v reflect.Value) error
}

// Customizer is implemented by converters that adjust a contract before its
// members are resolved. It runs once, first thing in the configure pass.
type Customizer interface {
	CustomizeContract(t reflect.Type, c Configurable) error
}

// Configurable is the part of a contract a Customizer may change.
type Configurable interface {
	SetNumberHandling(NumberHandling) error
}

// NumberHandling controls how numbers are read and written.
type NumberHandling int

const (
	NumberStrict NumberHandling = 0
	// NumberAllowReadingFromString accepts "123" where 123 is expected.
	NumberAllowReadingFromString NumberHandling = 1 << iota
	// NumberWriteAsString writes 123 as "123".
	NumberWriteAsString
)

// Has reports whether all bits of flag are set.
func (h NumberHandling) Has(flag NumberHandling) bool {
	return h&flag == flag
}

type builtin Strategy

func (b builtin) Strategy() Strategy { return Strategy(b) }

// Of returns a stateless converter reporting strategy s.
func Of(s Strategy) Converter { return builtin(s) }
