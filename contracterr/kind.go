package contracterr

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind classifies a contract failure. Kinds are deterministic: retrying the
// same operation without changing the type or its configuration reproduces
// the same Kind.
type Kind int

const (
	_ Kind = iota // zero value is not a valid kind

	UnsupportedType
	InvalidTypeForSerialization
	DuplicatePropertyName
	MultipleExtensionDataProperties
	InvalidExtensionDataType
	AmbiguousConstructorBinding
	ExtensionDataCannotBindToConstructor
	TypeInfoImmutable
	UnknownPolymorphicDiscriminator
	UnknownRuntimeTypeForEncoding
	InvalidConstructor
	InvalidPolymorphismConfiguration
	UnmappedMember

	// KindTotal is one past the last kind.
	KindTotal = int(iota)
)

var descriptions = [...]string{
	UnsupportedType:                      "no converter strategy for type",
	InvalidTypeForSerialization:          "type cannot be serialized",
	DuplicatePropertyName:                "duplicate property name",
	MultipleExtensionDataProperties:      "multiple extension data properties",
	InvalidExtensionDataType:             "invalid extension data type",
	AmbiguousConstructorBinding:          "ambiguous constructor binding",
	ExtensionDataCannotBindToConstructor: "extension data cannot bind to constructor parameter",
	TypeInfoImmutable:                    "contract is immutable once configured",
	UnknownPolymorphicDiscriminator:      "unknown polymorphic discriminator",
	UnknownRuntimeTypeForEncoding:        "runtime type is not registered for polymorphic encoding",
	InvalidConstructor:                   "invalid constructor",
	InvalidPolymorphismConfiguration:     "invalid polymorphism configuration",
	UnmappedMember:                       "unmapped member",
}

// Error implements error so that a Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	if k > 0 && int(k) < len(descriptions) {
		return "contract: " + descriptions[k]
	}

	return "contract: " + k.String()
}
