package contract

import "typecontract/converter"

//go:generate go tool stringer -type=Kind,UnmappedMemberHandling -output=kind_string.go

// Kind is the coarse shape of a contract.
type Kind int

const (
	KindNone Kind = iota
	KindObject
	KindEnumerable
	KindDictionary
)

// kindOf classifies a strategy. Value types and the empty interface have no
// structure of their own.
func kindOf(s converter.Strategy) Kind {
	switch s {
	case converter.StrategyObject:
		return KindObject
	case converter.StrategyEnumerable:
		return KindEnumerable
	case converter.StrategyDictionary:
		return KindDictionary
	default:
		return KindNone
	}
}

// UnmappedMemberHandling selects what decoding does with document members
// that match no property and no extension data member.
type UnmappedMemberHandling int

const (
	UnmappedSkip UnmappedMemberHandling = iota
	UnmappedDisallow
)
