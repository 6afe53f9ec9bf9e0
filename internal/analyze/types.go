package analyze

import (
	"go/types"
	"reflect"
	"slices"
	"strings"

	"typecontract/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "typecontract/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package-name qualified form ("store.Order") that
// reflect and the contract errors print.
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown     TypeKind = iota
	TypeKindBasic                // int, string, bool, etc.
	TypeKindStruct               // struct type
	TypeKindPointer              // pointer to another type
	TypeKindSlice                // slice of another type
	TypeKindArray                // array of another type
	TypeKindMap                  // map from KeyType to ElemType
	TypeKindInterface            // interface type
	TypeKindAlias                // named type wrapping a non-struct type
	TypeKindExternal             // opaque type from a package that was not loaded (e.g., time.Time)
	TypeKindTypeParam            // type parameter of a generic declaration
	TypeKindUnsupported          // channels and functions
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	case TypeKindTypeParam:
		return "type parameter"
	case TypeKindUnsupported:
		return "unsupported"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For aliases, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	KeyType    *TypeInfo   // For maps, the key type
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type
	Generic    bool        // Declared with type parameters and not instantiated
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Lookup resolves a type name like:
//   - "store.Order" (short)
//   - "typecontract/store.Order" (full)
//   - "Order" (name only, when unambiguous).
func (g *TypeGraph) Lookup(name string) *TypeInfo {
	if g == nil || name == "" {
		return nil
	}

	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		var found *TypeInfo

		for id, t := range g.Types {
			if id.Name != name {
				continue
			}

			if found != nil {
				return nil
			}

			found = t
		}

		return found
	}

	pkgStr, typeName := name[:lastDot], name[lastDot+1:]
	if pkgStr == "" || typeName == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := g.GetType(TypeID{PkgPath: pkgStr, Name: typeName}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "store.Order" vs "typecontract/store.Order")
	for id, t := range g.Types {
		if id.Name == typeName && strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			return t
		}
	}

	return nil
}

// Names returns the short names of all named types, sorted.
func (g *TypeGraph) Names() []string {
	names := make([]string, 0, len(g.Types))
	for id := range g.Types {
		names = append(names, id.Short())
	}

	slices.Sort(names)

	return names
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string                 // Import path
	Name  string                 // Package name
	Types []TypeID               // Exported named types defined in this package
	Funcs map[string]*types.Func // Package-level functions by name
}
