// Package diagnostic collects the findings of a static contract check.
//
// Every finding carries a code, the type it concerns and, when it concerns
// one member, the member name. Codes of findings that correspond to a
// contract failure are derived from its contracterr kind, so a lint error
// and the runtime error it predicts share a name.
package diagnostic
