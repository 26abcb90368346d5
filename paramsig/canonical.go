package paramsig

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// DefaultDelimiter separates name=value pairs in the canonical string.
const DefaultDelimiter = "&"

// DuplicatePolicy decides which value is signed when a parameter name
// occurs more than once.
type DuplicatePolicy string

const (
	// DuplicateReject treats any repeated name as a malformed request.
	DuplicateReject DuplicatePolicy = "reject"

	// DuplicateFirst signs the first occurrence. Header values come before
	// query values, which come before form values.
	DuplicateFirst DuplicatePolicy = "first"

	// DuplicateLast signs the last occurrence.
	DuplicateLast DuplicatePolicy = "last"
)

func (p DuplicatePolicy) valid() bool {
	switch p {
	case DuplicateReject, DuplicateFirst, DuplicateLast:
		return true
	default:
		return false
	}
}

// CanonicalOptions controls Canonicalize.
type CanonicalOptions struct {
	// Excluded lists names left out of the canonical string. The
	// signature parameter must always be among them.
	Excluded []string

	// Delimiter joins the name=value pairs. Defaults to DefaultDelimiter.
	Delimiter string

	// Duplicates selects the duplicate policy. Defaults to DuplicateReject.
	Duplicates DuplicatePolicy
}

// Canonicalize renders params as the string that is signed.
//
// Names are sorted by byte value and each pair is written as name=value
// with both sides query-escaped, so a delimiter or '=' inside a value can
// never be mistaken for structure. Parameters with an empty value are kept.
// The output depends only on the set of (name, value) pairs, never on the
// insertion order of names.
func Canonicalize(params url.Values, opts CanonicalOptions) (string, error) {
	delim := opts.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}

	names := make([]string, 0, len(params))
	for name := range params {
		if slices.Contains(opts.Excluded, name) {
			continue
		}

		names = append(names, name)
	}

	slices.Sort(names)

	var b strings.Builder
	for i, name := range names {
		value, err := pickValue(name, params[name], opts.Duplicates)
		if err != nil {
			return "", err
		}

		if i > 0 {
			b.WriteString(delim)
		}

		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	return b.String(), nil
}

// pickValue resolves the values of a single name according to policy.
func pickValue(name string, values []string, policy DuplicatePolicy) (string, error) {
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	}

	switch policy {
	case DuplicateFirst:
		return values[0], nil
	case DuplicateLast:
		return values[len(values)-1], nil
	case DuplicateReject, "":
		return "", fieldError(name, ErrDuplicateParam)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDuplicatePolicy, string(policy))
	}
}

// validDelimiter reports whether d can never appear inside a query-escaped
// name or value: no unreserved characters, no '+' (escaped space) and no
// '%' (escape prefix).
func validDelimiter(d string) bool {
	if d == "" {
		return false
	}

	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			return false
		case c == '-', c == '_', c == '.', c == '~', c == '+', c == '%':
			return false
		}
	}

	return true
}
