// Package keyword implements the tagged uppercase identifiers used
// throughout the configuration file format and the wire protocols: a
// source form such as ":target-id" names the keyword whose canonical
// name is "TARGET-ID".
package keyword

import "strings"

// Keyword is an uppercase tagged symbol. Two keywords are equal iff
// their canonical names are equal.
type Keyword struct {
	name string
}

// New returns the keyword whose canonical name is the upper-cased
// form of name. name must already have any leading ':' stripped.
func New(name string) Keyword {
	return Keyword{name: strings.ToUpper(name)}
}

// Parse parses a source token. If token begins with ':', it returns
// the corresponding keyword and true. Otherwise it returns the zero
// Keyword and false.
func Parse(token string) (Keyword, bool) {
	rest, ok := strings.CutPrefix(token, ":")
	if !ok {
		return Keyword{}, false
	}
	return New(rest), true
}

// Name returns the canonical (upper-case) name of the keyword.
func (k Keyword) Name() string {
	return k.name
}

// Equal reports whether two keywords have the same canonical name.
func (k Keyword) Equal(other Keyword) bool {
	return k.name == other.name
}

// IsZero reports whether k is the zero Keyword.
func (k Keyword) IsZero() bool {
	return k.name == ""
}

// String renders the keyword in its source form, lower-cased after
// the colon, which is how keywords are usually written by a human.
func (k Keyword) String() string {
	return ":" + strings.ToLower(k.name)
}
