package analyze

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/discover"
	"typecontract/resolve"
)

func goType(t *testing.T, graph *TypeGraph, name string) types.Type {
	t.Helper()

	info := graph.Lookup(name)
	require.NotNil(t, info, name)

	return info.GoType
}

func TestStatic_Members(t *testing.T) {
	graph := loadGraph(t)
	s := NewStatic(graph)

	members, err := s.Members(goType(t, graph, "store.Order"))
	require.NoError(t, err)

	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}

	assert.Equal(t, []string{"ID", "Status", "Items", "Payment", "Notes", "Extra", "CreatedBy", "CreatedAt"}, names,
		"own members first, promoted ones after")

	assert.Equal(t, "store.Order", members[0].DeclaringType)
	assert.Equal(t, "[]store.OrderItem", members[2].Type)
	assert.True(t, members[5].Effect.ExtensionData)
	assert.Equal(t, "store.Audit", members[6].DeclaringType)
	assert.Equal(t, []int{0, 0}, members[6].Index)
	assert.Equal(t, "time.Time", members[7].Type)

	table, err := resolve.ResolveProperties("store.Order", members, s.Config())
	require.NoError(t, err)
	require.NotNil(t, table.Extension())
	assert.Equal(t, "Extra", table.Extension().MemberName)

	none, err := s.Members(goType(t, graph, "store.OrderStatus"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStatic_Failures(t *testing.T) {
	graph := loadGraph(t)
	s := NewStatic(graph)

	tests := []struct {
		typ  string
		kind contracterr.Kind
	}{
		{"warehouse.Shelf", contracterr.DuplicatePropertyName},
		{"warehouse.Crate", contracterr.MultipleExtensionDataProperties},
		{"warehouse.Pallet", contracterr.InvalidExtensionDataType},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			members, err := s.Members(goType(t, graph, tt.typ))
			require.NoError(t, err)

			_, err = resolve.ResolveProperties(tt.typ, members, s.Config())
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestStatic_Constructor(t *testing.T) {
	graph := loadGraph(t)
	s := NewStatic(graph)

	item := goType(t, graph, "store.OrderItem").(*types.Named)

	members, err := s.Members(item)
	require.NoError(t, err)

	table, err := resolve.ResolveProperties("store.OrderItem", members, s.Config())
	require.NoError(t, err)

	descs, err := s.Constructor(item, "NewOrderItem",
		discover.Param("productID"), discover.ParamDefault("quantity", 1), discover.Param("unitPrice"))
	require.NoError(t, err)
	assert.Equal(t, []resolve.ParamDescriptor[string]{
		{Name: "productID", Type: "int64"},
		{Name: "quantity", Type: "int", HasDefault: true, Default: 1},
		{Name: "unitPrice", Type: "int64"},
	}, descs)

	params, err := resolve.BindConstructor(table, descs)
	require.NoError(t, err)

	for _, p := range params {
		assert.True(t, p.Bound(), p.Name)
	}

	_, err = s.Constructor(item, "NewOrderItem", discover.Param("productID"))
	assert.ErrorIs(t, err, discover.ErrParamCount)
	assert.ErrorIs(t, err, contracterr.InvalidConstructor)

	_, err = s.Constructor(item, "NewItem")
	assert.ErrorContains(t, err, "function NewItem is not declared in typecontract/store")

	order := goType(t, graph, "store.Order").(*types.Named)
	_, err = s.Constructor(order, "NewOrderItem", discover.Param("a"), discover.Param("b"), discover.Param("c"))
	assert.ErrorIs(t, err, discover.ErrNotAConstructor)
}

func TestStatic_AmbiguousConstructor(t *testing.T) {
	graph := loadGraph(t)
	s := NewStatic(graph)

	bin := goType(t, graph, "warehouse.Bin").(*types.Named)

	members, err := s.Members(bin)
	require.NoError(t, err)

	table, err := resolve.ResolveProperties("warehouse.Bin", members, s.Config())
	require.NoError(t, err)

	descs, err := s.Constructor(bin, "NewBin", discover.Param("name"))
	require.NoError(t, err)

	_, err = resolve.BindConstructor(table, descs)
	assert.ErrorIs(t, err, contracterr.AmbiguousConstructorBinding)
}

func TestClassify(t *testing.T) {
	graph := loadGraph(t)
	forklift := graph.Lookup("warehouse.Forklift")
	require.NotNil(t, forklift)

	tests := []struct {
		name     string
		typ      types.Type
		strategy converter.Strategy
		kind     contracterr.Kind
	}{
		{"int", types.Typ[types.Int], converter.StrategyValue, 0},
		{"bytes", types.NewSlice(types.Typ[types.Byte]), converter.StrategyValue, 0},
		{"time", field(t, graph.Lookup("store.Audit"), "CreatedAt").Type.GoType, converter.StrategyValue, 0},
		{"alias of string", goType(t, graph, "store.OrderStatus"), converter.StrategyValue, 0},
		{"struct", goType(t, graph, "store.Order"), converter.StrategyObject, 0},
		{"pointer to struct", types.NewPointer(goType(t, graph, "store.Order")), converter.StrategyObject, 0},
		{"interface", goType(t, graph, "store.Payment"), converter.StrategyObject, 0},
		{"empty interface", types.NewInterfaceType(nil, nil), converter.StrategyValue, 0},
		{"slice", types.NewSlice(goType(t, graph, "store.OrderItem")), converter.StrategyEnumerable, 0},
		{"map", types.NewMap(types.Typ[types.Int64], types.Typ[types.Bool]), converter.StrategyDictionary, 0},
		{"chan", field(t, forklift, "Fuel").Type.GoType, converter.StrategyUnsupported, contracterr.UnsupportedType},
		{"complex", types.Typ[types.Complex128], converter.StrategyUnsupported, contracterr.UnsupportedType},
		{"double pointer", field(t, forklift, "Next").Type.GoType, converter.StrategyUnsupported, contracterr.InvalidTypeForSerialization},
		{"uintptr", types.Typ[types.Uintptr], converter.StrategyUnsupported, contracterr.InvalidTypeForSerialization},
		{"generic", goType(t, graph, "warehouse.Box"), converter.StrategyUnsupported, contracterr.InvalidTypeForSerialization},
		{"type parameter", field(t, graph.Lookup("warehouse.Box"), "Value").Type.GoType, converter.StrategyUnsupported, contracterr.InvalidTypeForSerialization},
		{"struct keyed map", types.NewMap(goType(t, graph, "store.Card"), types.Typ[types.Int]), converter.StrategyUnsupported, contracterr.UnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, _, _, err := Classify(tt.typ)
			assert.Equal(t, tt.strategy, strategy)

			if tt.kind == 0 {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.kind)
			}
		})
	}
}

func TestImplements(t *testing.T) {
	graph := loadGraph(t)
	payment := goType(t, graph, "store.Payment")

	assert.True(t, Implements(goType(t, graph, "store.Card"), payment))
	assert.True(t, Implements(goType(t, graph, "store.Transfer"), payment), "pointer receivers count")
	assert.False(t, Implements(goType(t, graph, "store.Order"), payment))
	assert.False(t, Implements(goType(t, graph, "store.Card"), goType(t, graph, "store.Order")))
}

func TestIsExtensionShape(t *testing.T) {
	graph := loadGraph(t)

	order := graph.Lookup("store.Order")
	require.NotNil(t, order)

	assert.True(t, IsExtensionShape(field(t, order, "Extra").Type.GoType))
	assert.False(t, IsExtensionShape(field(t, order, "Notes").Type.GoType))
	assert.True(t, IsExtensionShape(types.NewMap(types.Typ[types.String], types.NewSlice(types.Typ[types.Byte]))))
	assert.False(t, IsExtensionShape(field(t, graph.Lookup("warehouse.Pallet"), "Extra").Type.GoType))
}
