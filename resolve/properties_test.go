package resolve

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecontract/contracterr"
	"typecontract/naming"
)

// Static-style identities: the type is its printed name.
var testConfig = Config[string]{
	Policy: naming.CamelCase,
	IsExtensionShape: func(t string) bool {
		return strings.HasPrefix(t, "map[string]")
	},
}

func member(name, typ string, effect Effect) Member[string] {
	return Member[string]{DeclaringType: "test.Owner", Name: name, Type: typ, Exported: true, Effect: effect}
}

func wireNames(props []*Property[string]) []string {
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.WireName)
	}

	return names
}

func TestResolveProperties_DiscoveryOrder(t *testing.T) {
	table, err := ResolveProperties("test.Owner", []Member[string]{
		member("Zeta", "string", Effect{}),
		member("Alpha", "int", Effect{}),
		member("Skipped", "int", Effect{Ignore: true}),
		member("Middle", "bool", Effect{WireName: "MIDDLE"}),
		{Name: "hidden", Type: "int"},
	}, testConfig)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"zeta", "alpha", "MIDDLE"}, wireNames(table.Active())); diff != "" {
		t.Errorf("active properties mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 4, table.Len(), "ignored members stay in the table")
	assert.True(t, table.Frozen())
}

func TestResolveProperties_Collisions(t *testing.T) {
	tests := []struct {
		name       string
		members    []Member[string]
		wantActive []string
		wantMember string
		wantKind   contracterr.Kind
	}{
		{
			name: "ignored first is replaced",
			members: []Member[string]{
				member("Foo", "string", Effect{WireName: "foo", Ignore: true}),
				member("Bar", "string", Effect{WireName: "foo"}),
			},
			wantActive: []string{"foo"},
			wantMember: "Bar",
		},
		{
			name: "ignored second is dropped",
			members: []Member[string]{
				member("Bar", "string", Effect{WireName: "foo"}),
				member("Foo", "string", Effect{WireName: "foo", Ignore: true}),
			},
			wantActive: []string{"foo"},
			wantMember: "Bar",
		},
		{
			name: "two active members",
			members: []Member[string]{
				member("Foo", "string", Effect{WireName: "foo"}),
				member("Bar", "string", Effect{WireName: "foo"}),
			},
			wantKind: contracterr.DuplicatePropertyName,
		},
		{
			name: "policy induced collision",
			members: []Member[string]{
				member("URL", "string", Effect{}),
				member("Url", "string", Effect{}),
			},
			wantKind: contracterr.DuplicatePropertyName,
		},
		{
			name: "same member twice keeps the first",
			members: []Member[string]{
				member("Foo", "string", Effect{}),
				member("Foo", "int", Effect{}),
			},
			wantActive: []string{"foo"},
			wantMember: "Foo",
		},
		{
			name: "member hidden by ignored override",
			members: []Member[string]{
				member("Name", "string", Effect{Ignore: true, WireName: "label"}),
				member("Other", "string", Effect{WireName: "name"}),
				member("Name", "string", Effect{}),
			},
			wantActive: []string{"name"},
			wantMember: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ResolveProperties("test.Owner", tt.members, testConfig)
			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantKind)

				var ce *contracterr.Error
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "test.Owner", ce.Type)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, wireNames(table.Active()))

			p, ok := table.Lookup(tt.wantActive[0])
			require.True(t, ok)
			assert.Equal(t, tt.wantMember, p.MemberName)
			assert.False(t, p.Ignored)
		})
	}
}

func TestResolveProperties_ExtensionData(t *testing.T) {
	table, err := ResolveProperties("test.Owner", []Member[string]{
		member("Name", "string", Effect{}),
		member("Extra", "map[string]any", Effect{ExtensionData: true}),
	}, testConfig)
	require.NoError(t, err)
	require.NotNil(t, table.Extension())
	assert.Equal(t, "Extra", table.Extension().MemberName)
	assert.Equal(t, []string{"name"}, wireNames(table.Active()))

	_, err = ResolveProperties("test.Owner", []Member[string]{
		member("Extra", "map[int]any", Effect{ExtensionData: true}),
	}, testConfig)
	assert.ErrorIs(t, err, contracterr.InvalidExtensionDataType)

	_, err = ResolveProperties("test.Owner", []Member[string]{
		member("Extra", "map[string]any", Effect{ExtensionData: true}),
		member("More", "map[string]any", Effect{ExtensionData: true}),
	}, testConfig)
	assert.ErrorIs(t, err, contracterr.MultipleExtensionDataProperties)

	table, err = ResolveProperties("test.Owner", []Member[string]{
		member("Extra", "map[string]any", Effect{ExtensionData: true, Ignore: true}),
	}, testConfig)
	require.NoError(t, err)
	assert.Nil(t, table.Extension(), "an ignored extension member is not designated")
}

func TestResolveProperties_Order(t *testing.T) {
	table, err := ResolveProperties("test.Owner", []Member[string]{
		member("C", "int", Effect{}),
		member("A", "int", Effect{Order: -1}),
		member("D", "int", Effect{Order: 5}),
		member("B", "int", Effect{}),
	}, testConfig)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b", "d"}, wireNames(table.Active()))

	p, ok := table.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "B", p.MemberName)
}

func TestResolveProperties_ExtremeOrder(t *testing.T) {
	table, err := ResolveProperties("test.Owner", []Member[string]{
		member("Last", "int", Effect{Order: math.MaxInt}),
		member("First", "int", Effect{Order: math.MinInt}),
		member("Middle", "int", Effect{Order: -1}),
	}, testConfig)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "middle", "last"}, wireNames(table.Active()))
}

func TestPropertyTable_Frozen(t *testing.T) {
	table := NewPropertyTable("test.Owner", testConfig)
	require.NoError(t, table.Add(member("A", "int", Effect{})))

	table.Freeze()

	err := table.Add(member("B", "int", Effect{}))
	assert.ErrorIs(t, err, contracterr.TypeInfoImmutable)
	assert.Equal(t, 1, table.Len())
}
