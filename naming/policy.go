package naming

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Policy converts a member name into its default wire name.
type Policy func(name string) string

// Identity keeps member names unchanged.
func Identity(name string) string { return name }

// CamelCase lowercases the leading upper-case run of a name,
// keeping the last capital of an acronym that starts a new word:
// "FirstName" -> "firstName", "URLValue" -> "urlValue", "ID" -> "id".
func CamelCase(name string) string {
	if name == "" {
		return name
	}

	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return name
	}

	for i := range runes {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}

		hasNext := i+1 < len(runes)
		if i > 0 && hasNext && !unicode.IsUpper(runes[i+1]) {
			if isSeparator(runes[i+1]) {
				runes[i] = unicode.ToLower(runes[i])
			}

			break
		}

		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}

// PascalCase upper-cases the first rune of every token and joins them.
func PascalCase(name string) string {
	var b strings.Builder

	b.Grow(len(name))

	for _, tok := range Tokenize(name) {
		r, size := utf8.DecodeRuneInString(tok)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(tok[size:])
	}

	return b.String()
}

// SnakeCaseLower renders "FirstName" as "first_name".
func SnakeCaseLower(name string) string { return joinTokens(name, "_", cases.Lower(language.Und)) }

// SnakeCaseUpper renders "FirstName" as "FIRST_NAME".
func SnakeCaseUpper(name string) string { return joinTokens(name, "_", cases.Upper(language.Und)) }

// KebabCaseLower renders "FirstName" as "first-name".
func KebabCaseLower(name string) string { return joinTokens(name, "-", cases.Lower(language.Und)) }

// KebabCaseUpper renders "FirstName" as "FIRST-NAME".
func KebabCaseUpper(name string) string { return joinTokens(name, "-", cases.Upper(language.Und)) }

func joinTokens(name, sep string, caser cases.Caser) string {
	tokens := Tokenize(name)
	if len(tokens) == 0 {
		return name
	}

	return caser.String(strings.Join(tokens, sep))
}

// Fold returns the case-folded form of s, used for case-insensitive
// identifier comparison. It is deliberately not used for wire names,
// which always compare case-sensitively.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

var byName = map[string]Policy{
	"":                 nil,
	"none":             nil,
	"identity":         Identity,
	"camel_case":       CamelCase,
	"pascal_case":      PascalCase,
	"snake_case_lower": SnakeCaseLower,
	"snake_case_upper": SnakeCaseUpper,
	"kebab_case_lower": KebabCaseLower,
	"kebab_case_upper": KebabCaseUpper,
}

// ByName looks a policy up by its configuration name ("camel_case",
// "snake_case_lower", ...). The empty name and "none" yield a nil policy.
func ByName(name string) (Policy, error) {
	p, ok := byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown naming policy %q (known: %s)", name, strings.Join(Names(), ", "))
	}

	return p, nil
}

// Names returns the configuration names of all built-in policies.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		if n != "" {
			names = append(names, n)
		}
	}

	sort.Strings(names)

	return names
}

// Apply applies p to name, treating a nil policy as Identity.
func (p Policy) Apply(name string) string {
	if p == nil {
		return name
	}

	return p(name)
}
