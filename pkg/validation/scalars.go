package validation

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/utc"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/modelsync/pkg/constants"
)

// Trim removes surrounding whitespace in place and normalizes the remainder
// to Unicode NFC.
func Trim(s *string) {
	if s == nil {
		return
	}
	t := strings.TrimSpace(*s)
	if !norm.NFC.IsNormalString(t) {
		t = norm.NFC.String(t)
	}
	*s = t
}

// Required trims value in place and fails when nothing is left.
func Required(vc *Context, field string, value *string) error {
	Trim(value)
	if *value == "" {
		return vc.Violation(field, *value, "is required")
	}
	return nil
}

// MaxLength fails when value holds more than limit characters.
func MaxLength(vc *Context, field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return vc.Violation(field, value, fmt.Sprintf("must be at most %d characters (got %d)", limit, n))
	}
	return nil
}

// Text trims value in place and applies the presence and length rules of a
// free-text field. A limit of zero disables the length check.
func Text(vc *Context, field string, value *string, required bool, limit int) error {
	Trim(value)
	if required && *value == "" {
		return vc.Violation(field, *value, "is required")
	}
	if limit > 0 {
		return MaxLength(vc, field, *value, limit)
	}
	return nil
}

// Enum fails when a present value is not one of allowed.
func Enum[S ~string](vc *Context, field string, value S, allowed ...S) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return vc.Violation(field, string(value), fmt.Sprintf("must be one of %s (got %q)", strings.Join(names, ", "), value))
}

// Range fails when a present value lies outside [lo, hi].
func Range[N cmp.Ordered](vc *Context, field string, value *N, lo, hi N) error {
	if value == nil {
		return nil
	}
	if *value < lo || *value > hi {
		return vc.Violation(field, *value, fmt.Sprintf("must be between %v and %v (got %v)", lo, hi, *value))
	}
	return nil
}

// Pattern fails when a present value does not match re.
func Pattern(vc *Context, field, value string, re *regexp.Regexp) error {
	if value == "" || re.MatchString(value) {
		return nil
	}
	return vc.Violation(field, value, fmt.Sprintf("must match %s", re.String()))
}

// TimeOrder fails with a consistency violation at endField when both times
// are set and end precedes start.
func TimeOrder(vc *Context, startField, endField string, start, end *utc.Time) error {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(*start) {
		return vc.Inconsistent(endField, end.String(), fmt.Sprintf("must not be before %s", startField))
	}
	return nil
}

// Keywords trims every element, drops blank ones and checks the length of
// what remains. Paths of reported violations index the normalized list.
func Keywords(vc *Context, field string, values []string) ([]string, error) {
	if values == nil {
		return nil, nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		Trim(&v)
		if v != "" {
			out = append(out, v)
		}
	}
	lc := vc.WithField(field)
	for i, v := range out {
		if n := utf8.RuneCountInString(v); n > constants.MaxKeywordLength {
			return out, lc.WithIndex(i).Violation("", v, fmt.Sprintf("must be at most %d characters (got %d)", constants.MaxKeywordLength, n))
		}
	}
	return out, nil
}
