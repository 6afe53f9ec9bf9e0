// Package polymorph resolves derived-type substitution for interface-typed
// values: which discriminator to write for a runtime type, and which
// concrete type to instantiate for a discriminator read from a document.
//
// Polymorphism is opt-in. A base type participates only when a Config is
// found for it, either registered explicitly on a Registry (checked first)
// or declared process-wide with Declare, typically from the init function of
// the package that owns the base type. The first source that knows the base
// wins; the two are never merged.
package polymorph
