// Package resolve turns member and constructor-parameter descriptors into
// property and parameter tables.
//
// The package is generic over the type identity T so that any host able to
// describe members can use it: the runtime uses reflect.Type, static
// analysis uses the printed go/types type. Resolution only ever compares
// identities with ==.
//
// Wire names compare case-sensitively. Constructor parameters bind to
// properties by case-folded member name plus exact type; the two comparers
// serve different purposes and are never unified.
package resolve
