package partner

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const codePrefixLength = 3

var upper = cases.Upper(language.Und)

// CodePrefix takes the first three alphabetic letters of a name, upper-cased.
// Names with fewer letters are padded with X.
func CodePrefix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
			if b.Len() == codePrefixLength {
				break
			}
		}
	}
	prefix := upper.String(b.String())
	for len(prefix) < codePrefixLength {
		prefix += "X"
	}
	return prefix
}

// FormatCustomerCode renders the prefix followed by a zero padded 4 digit sequence
func FormatCustomerCode(name string, seq int64) string {
	return fmt.Sprintf("%s%04d", CodePrefix(name), seq)
}
