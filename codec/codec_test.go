package codec_test

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecontract/codec"
	"typecontract/contract"
	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/discover"
	"typecontract/naming"
	"typecontract/polymorph"
)

type Address struct {
	Street string `json:"street"`
	City   string `json:"city,omitempty"`
}

type Account struct {
	Owner    string `contract:"order=-1"`
	Balance  int    `json:"balance,string"`
	Password string `json:"-"`
	Address  *Address
	Tags     []string
	Extra    map[string]any `json:",unknown"`
}

func TestMarshal_Object(t *testing.T) {
	opts := contract.MustOptions(contract.WithNamingPolicy(naming.CamelCase))

	acct := Account{
		Owner:    "ada",
		Balance:  42,
		Password: "secret",
		Address:  &Address{Street: "Main"},
		Extra:    map[string]any{"z": true, "a": 1.5},
	}

	got, err := codec.Marshal(opts, acct)
	require.NoError(t, err)
	assert.Equal(t,
		`{"owner":"ada","balance":"42","address":{"street":"Main"},"tags":null,"a":1.5,"z":true}`,
		string(got))
}

func TestUnmarshal_Object(t *testing.T) {
	opts := contract.MustOptions(contract.WithNamingPolicy(naming.CamelCase))

	var acct Account
	err := codec.Unmarshal(opts, []byte(`{
		"owner": "ada",
		"balance": "42",
		"password": "ignored",
		"address": {"street": "Main", "city": "Springfield"},
		"tags": ["x", "y"],
		"color": "blue",
		"nested": {"n": 1}
	}`), &acct)
	require.NoError(t, err)

	want := Account{
		Owner:   "ada",
		Balance: 42,
		Address: &Address{Street: "Main", City: "Springfield"},
		Tags:    []string{"x", "y"},
		Extra: map[string]any{
			"password": "ignored",
			"color":    "blue",
			"nested":   map[string]any{"n": 1.0},
		},
	}

	if diff := cmp.Diff(want, acct); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

type Strict struct {
	Count int `json:"count"`
}

func TestUnmarshal_UnmappedMembers(t *testing.T) {
	var s Strict

	lenient := contract.MustOptions()
	require.NoError(t, codec.Unmarshal(lenient, []byte(`{"count":1,"other":[1,2]}`), &s))
	assert.Equal(t, 1, s.Count)

	strict := contract.MustOptions(contract.WithUnmappedMemberHandling(contract.UnmappedDisallow))
	err := codec.Unmarshal(strict, []byte(`{"count":1,"other":[1,2]}`), &s)
	assert.ErrorIs(t, err, contracterr.UnmappedMember)
}

func TestNumberHandling(t *testing.T) {
	opts := contract.MustOptions()

	var s Strict
	err := codec.Unmarshal(opts, []byte(`{"count":"3"}`), &s)
	require.Error(t, err, "strict numbers reject strings")

	c, err := contract.For[Strict](opts)
	require.NoError(t, err)
	assert.ErrorIs(t, c.SetNumberHandling(converter.NumberAllowReadingFromString), contracterr.TypeInfoImmutable,
		"the contract froze on first use")

	lenient := contract.MustOptions()

	c, err = contract.For[Strict](lenient)
	require.NoError(t, err)
	require.NoError(t, c.SetNumberHandling(converter.NumberAllowReadingFromString|converter.NumberWriteAsString))

	require.NoError(t, codec.Unmarshal(lenient, []byte(`{"count":"3"}`), &s))
	assert.Equal(t, 3, s.Count)

	got, err := codec.Marshal(lenient, s)
	require.NoError(t, err)
	assert.Equal(t, `{"count":"3"}`, string(got))
}

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Note     string `json:"note"`
	checked  bool
}

func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("negative amount %d", amount)
	}

	return Money{Amount: amount, Currency: strings.ToUpper(currency), checked: true}, nil
}

func TestUnmarshal_Constructor(t *testing.T) {
	opts := contract.MustOptions(contract.WithConstructor(NewMoney,
		discover.Param("amount"), discover.ParamDefault("currency", "eur")))

	var m Money
	require.NoError(t, codec.Unmarshal(opts, []byte(`{"note":"tip","amount":5,"currency":"usd"}`), &m))
	assert.Equal(t, Money{Amount: 5, Currency: "USD", Note: "tip", checked: true}, m)

	require.NoError(t, codec.Unmarshal(opts, []byte(`{"amount":7}`), &m))
	assert.Equal(t, "EUR", m.Currency, "missing parameters take their default")

	err := codec.Unmarshal(opts, []byte(`{"amount":-1}`), &m)
	assert.EqualError(t, err, "negative amount -1")
}

type Shape interface{ Area() float64 }

type Circle struct {
	Radius float64 `json:"radius"`
}

func (c Circle) Area() float64 { return 3 * c.Radius * c.Radius }

type Square struct {
	Side float64 `json:"side"`
}

func (s *Square) Area() float64 { return s.Side * s.Side }

type Triangle struct{}

func (Triangle) Area() float64 { return 0 }

type Drawing struct {
	Title  string  `json:"title"`
	Shapes []Shape `json:"shapes"`
	Focus  Shape   `json:"focus"`
}

func shapeOptions(t *testing.T, mods ...func(*polymorph.Config)) *contract.Options {
	t.Helper()

	cfg := polymorph.Config{
		Base:                  reflect.TypeFor[Shape](),
		DiscriminatorProperty: "kind",
		Derived: []polymorph.DerivedType{
			polymorph.Derive[Circle]("circle"),
			polymorph.Derive[Square]("square"),
		},
	}
	for _, mod := range mods {
		mod(&cfg)
	}

	opts, err := contract.NewOptions(contract.WithPolymorphism(cfg))
	require.NoError(t, err)

	return opts
}

func TestPolymorphism_RoundTrip(t *testing.T) {
	opts := shapeOptions(t)

	in := Drawing{
		Title:  "d",
		Shapes: []Shape{Circle{Radius: 1}, &Square{Side: 2}},
	}

	data, err := codec.Marshal(opts, in)
	require.NoError(t, err)
	assert.Equal(t,
		`{"title":"d","shapes":[{"kind":"circle","radius":1},{"kind":"square","side":2}],"focus":null}`,
		string(data))

	var out Drawing
	require.NoError(t, codec.Unmarshal(opts, data, &out))
	assert.Equal(t, in, out)

	var s Shape
	require.NoError(t, codec.Unmarshal(opts, []byte(`{"radius":2,"kind":"circle"}`), &s),
		"the discriminator may appear anywhere")
	assert.Equal(t, Circle{Radius: 2}, s)

	top, err := codec.Marshal[Shape](opts, &Square{Side: 3})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"square","side":3}`, string(top))
}

func TestPolymorphism_Unknown(t *testing.T) {
	opts := shapeOptions(t)

	_, err := codec.Marshal[Shape](opts, Triangle{})
	assert.ErrorIs(t, err, contracterr.UnknownRuntimeTypeForEncoding)

	var s Shape
	err = codec.Unmarshal(opts, []byte(`{"kind":"sqaure","side":1}`), &s)
	require.ErrorIs(t, err, contracterr.UnknownPolymorphicDiscriminator)
	assert.Contains(t, err.Error(), `did you mean "square"?`)

	lenient := shapeOptions(t, func(c *polymorph.Config) { c.UnknownDerivedType = polymorph.FallBackToBase })

	data, err := codec.Marshal[Shape](lenient, Triangle{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data), "fallback writes no discriminator")
}

func TestPolymorphism_GenericFallback(t *testing.T) {
	opts := contract.MustOptions(contract.WithPolymorphism(polymorph.Config{
		Base:                 reflect.TypeFor[any](),
		Derived:              []polymorph.DerivedType{polymorph.Derive[Circle]("circle")},
		UnknownDiscriminator: polymorph.FallBackToBase,
	}))

	var v any
	require.NoError(t, codec.Unmarshal(opts, []byte(`{"$type":"circle","radius":1}`), &v))
	assert.Equal(t, Circle{Radius: 1}, v)

	require.NoError(t, codec.Unmarshal(opts, []byte(`{"$type":"blob","size":1}`), &v))
	assert.Equal(t, map[string]any{"$type": "blob", "size": 1.0}, v)
}

type Node struct {
	Value int   `json:"value"`
	Next  *Node `json:"next,omitempty"`
}

func TestRecursiveTypes(t *testing.T) {
	opts := contract.MustOptions()

	list := &Node{Value: 1, Next: &Node{Value: 2}}

	data, err := codec.Marshal(opts, list)
	require.NoError(t, err)
	assert.Equal(t, `{"value":1,"next":{"value":2}}`, string(data))

	var out *Node
	require.NoError(t, codec.Unmarshal(opts, data, &out))
	assert.Equal(t, list, out)
}

func TestDictionaries(t *testing.T) {
	opts := contract.MustOptions()

	in := map[int][]string{10: {"b"}, 2: {"a"}, 1: nil}

	data, err := codec.Marshal(opts, in)
	require.NoError(t, err)
	assert.Equal(t, `{"1":null,"10":["b"],"2":["a"]}`, string(data))

	var out map[int][]string
	require.NoError(t, codec.Unmarshal(opts, data, &out))
	assert.Equal(t, in, out)

	var bad map[int]string
	assert.Error(t, codec.Unmarshal(opts, []byte(`{"x":"y"}`), &bad))
}

type Celsius float64

type celsiusConverter struct{}

func (celsiusConverter) Strategy() converter.Strategy { return converter.StrategyValue }

func (celsiusConverter) MarshalValue(v reflect.Value) ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatFloat(v.Float(), 'f', -1, 64) + "C")), nil
}

func (celsiusConverter) UnmarshalValue(data []byte, v reflect.Value) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "C"), 64)
	if err != nil {
		return err
	}

	v.SetFloat(f)

	return nil
}

type Reading struct {
	Indoor  Celsius `json:"indoor"`
	Outdoor float64 `json:"outdoor" contract:"converter=celsius"`
}

func TestValueConverters(t *testing.T) {
	reg := converter.NewRegistry()
	reg.Register(reflect.TypeFor[Celsius](), celsiusConverter{})
	reg.RegisterNamed("celsius", celsiusConverter{})

	opts := contract.MustOptions(contract.WithConverters(reg))

	data, err := codec.Marshal(opts, Reading{Indoor: 21.5, Outdoor: -3})
	require.NoError(t, err)
	assert.Equal(t, `{"indoor":"21.5C","outdoor":"-3C"}`, string(data))

	var out Reading
	require.NoError(t, codec.Unmarshal(opts, data, &out))
	assert.Equal(t, Reading{Indoor: 21.5, Outdoor: -3}, out)
}

type Raw struct {
	ID   string                    `json:"id"`
	Rest map[string]jsontext.Value `json:",unknown"`
}

func TestExtensionData_RawValues(t *testing.T) {
	opts := contract.MustOptions()

	var r Raw
	require.NoError(t, codec.Unmarshal(opts, []byte(`{"id":"x","list":[1,2],"obj":{"a":null}}`), &r))
	assert.Equal(t, "x", r.ID)
	assert.Equal(t, `[1,2]`, string(r.Rest["list"]))

	data, err := codec.Marshal(opts, r)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"x","list":[1,2],"obj":{"a":null}}`, string(data))
}

func TestUnmarshal_Errors(t *testing.T) {
	opts := contract.MustOptions()

	var s Strict
	assert.Error(t, codec.Unmarshal(opts, []byte(`[1]`), &s))
	assert.Error(t, codec.Unmarshal(opts, []byte(`{"count":1} {}`), &s))
	assert.Error(t, codec.Unmarshal[Strict](opts, []byte(`{}`), nil))

	var sh Shape
	err := codec.Unmarshal(opts, []byte(`{"radius":1}`), &sh)
	assert.ErrorIs(t, err, contracterr.UnsupportedType, "no polymorphism configured for the interface")
}
