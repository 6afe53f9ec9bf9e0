// Package naming provides naming policies that turn Go member names into
// wire names, plus the identifier tokenizer and case folding they share.
//
// A Policy is a pure function; explicit wire names always take precedence
// over it and are never passed through a policy.
package naming
