package contract_test

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"typecontract/contract"
	"typecontract/converter"
)

type Address struct {
	Street string `json:"street"`
	City   string `json:"city,omitempty"`
}

type Customer struct {
	ID        int `json:"id"`
	FirstName string
	Password  string         `json:"-"`
	Address   *Address       `json:"address"`
	Tags      []string       `json:"tags"`
	Scores    map[string]int `json:"scores"`
	Extra     map[string]any `json:",unknown"`
	notes     string
	internal  string `contract:"include"`
}

// Node refers to itself directly and through a collection.
type Node struct {
	Value    int
	Next     *Node
	Children []Node
}

// Left and Right refer to each other.
type Left struct {
	Right *Right
}

type Right struct {
	Left *Left
}

type Person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func NewPerson(name string, age int) *Person {
	return &Person{Name: name, Age: age}
}

type Shouting struct {
	Name string `json:"name"`
	NAME string `json:"loud_name"`
}

func NewShouting(name string) Shouting { return Shouting{Name: name} }

type Bag struct {
	ID    string
	Extra map[string]any `json:",unknown"`
}

func NewBag(id string, extra map[string]any) Bag { return Bag{ID: id, Extra: extra} }

type Broken struct {
	Name   string
	Events chan int
}

type Holder struct {
	Broken Broken
}

type Shape interface{ Area() float64 }

type Circle struct {
	Radius float64 `json:"radius"`
}

func (c Circle) Area() float64 { return 3.14159 * c.Radius * c.Radius }

type Square struct {
	Side float64 `json:"side"`
}

func (s *Square) Area() float64 { return s.Side * s.Side }

type Drawing struct {
	Shapes []Shape `json:"shapes"`
}

// countingConverter counts configure passes of the type it is registered for.
type countingConverter struct {
	calls *atomic.Int64
	set   converter.NumberHandling
}

func (countingConverter) Strategy() converter.Strategy { return converter.StrategyObject }

func (c countingConverter) CustomizeContract(_ reflect.Type, cfg converter.Configurable) error {
	c.calls.Add(1)

	if c.set != 0 {
		return cfg.SetNumberHandling(c.set)
	}

	return nil
}

func mustOptions(opts ...contract.Option) *contract.Options {
	return contract.MustOptions(opts...)
}

// Dup claims the wire name "x" twice.
type Dup struct {
	X string `json:"x"`
	Y string `json:"x"`
}

// Outer and Inner refer to each other; only Outer reaches Dup.
type Outer struct {
	Inner *Inner
	Dup   Dup
}

type Inner struct {
	Outer *Outer
}

// Keeper and Peer refer to each other; only Keeper reaches Broken.
type Keeper struct {
	Peer   *Peer
	Broken Broken
}

type Peer struct {
	Keeper *Keeper
}

// flakyCustomizer changes number handling and fails on its first call only.
type flakyCustomizer struct {
	calls *atomic.Int64
}

func (flakyCustomizer) Strategy() converter.Strategy { return converter.StrategyObject }

func (f flakyCustomizer) CustomizeContract(t reflect.Type, cfg converter.Configurable) error {
	if f.calls.Add(1) > 1 {
		return nil
	}

	if err := cfg.SetNumberHandling(converter.NumberWriteAsString); err != nil {
		return err
	}

	return fmt.Errorf("%s is not ready", t)
}
