// Package match finds near misses between identifiers and scores how close
// two Go types are, so diagnostics can say "did you mean" instead of only
// "not found".
package match
