// Package analyze loads Go packages and builds the static counterpart of
// the runtime contract inputs.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build a
// catalog of named types and package-level functions, and a Static host
// that discovers members, classifies types and parses constructors the
// way the reflection-based host does, with types identified by strings.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/interface/map/alias/...), fields and
//     the go/types type
//   - Static: members, strategies and constructors for resolve.ResolveProperties
//     and resolve.BindConstructor
package analyze
