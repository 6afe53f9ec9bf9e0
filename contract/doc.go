// Package contract builds, validates and caches the serialization contract
// of Go types.
//
// A contract is created cheaply on first request (converter lookup and kind
// classification only) and configured once on first use: properties are
// resolved and frozen, the registered constructor is bound, polymorphism is
// resolved and every reachable child contract is configured in turn.
// Contracts are cached per Options value, one per type, and a pointer type
// shares the contract of its element type.
//
//	opts, err := contract.NewOptions(contract.WithNamingPolicy(naming.CamelCase))
//	c, err := contract.For[Order](opts)
//	props, err := c.Properties()
package contract
