package cipher

import (
	"fmt"
	"regexp"
	"strings"
)

var rxHint = regexp.MustCompile(`^([A-Za-z]+)=([A-Za-z]+)$`)

// ParseHints builds a legend from known substitutions. Each spec is a
// list of "cipher=plain" mappings separated by commas or spaces, where
// either side may hold several letters matched up by position:
//
//	"a=b"  "A=B, c=d"  "xyz=the"
func ParseHints(specs ...string) (Legend, error) {
	l := NewLegend()

	for _, spec := range specs {
		fields := strings.FieldsFunc(spec, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})

		for _, f := range fields {
			m := rxHint.FindStringSubmatch(f)
			if m == nil || len(m[1]) != len(m[2]) {
				return l, fmt.Errorf("%q: %w", f, ErrBadHint)
			}

			// m[1] is the left side of the '=', the encrypted letters
			// m[2] is the right side, the decrypted letters
			for i := 0; i < len(m[1]); i++ {
				if err := l.Assign(m[1][i], m[2][i]); err != nil {
					return l, err
				}
			}
		}
	}

	return l, nil
}
