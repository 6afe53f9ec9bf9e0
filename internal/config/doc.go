// Package config loads contract configuration from YAML.
//
// A file sets the naming policy, declares polymorphic hierarchies and
// overrides what discovery finds on individual types:
//
//	version: "1"
//	naming_policy: snake_case_lower
//	unmapped_members: disallow
//	polymorphism:
//	  - base: shapes.Shape
//	    discriminator: kind
//	    unknown_discriminator: fail
//	    derived:
//	      circle: shapes.Circle
//	      square: shapes.Square
//	types:
//	  shapes.Circle:
//	    constructor:
//	      func: NewCircle
//	      params: [radius, {name: unit, default: cm}]
//	    members:
//	      Radius: {name: r}
//	      Secret: {ignore: true}
//
// Types are named the way reflect prints them ("shapes.Circle"); the full
// import path form ("example.com/shapes.Circle") and the bare name are
// accepted when unambiguous. Options turns a File into contract options
// for a running program; cmd/contract-lint checks one statically.
package config
