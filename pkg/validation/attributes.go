package validation

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/lookup"
)

// Attributes checks a schema-free attribute bag against the schema of the
// referenced type. Violations are consistency violations at
// path.field.<name>: declared required attributes must be present, values
// must match the declared type and enumeration, and undeclared keys are
// rejected. Declared attributes are checked in schema order, undeclared keys
// in sorted order.
func Attributes(vc *Context, field string, attrs map[string]any, schema *lookup.Schema) error {
	ac := vc.WithField(field)
	if schema == nil {
		schema = &lookup.Schema{}
	}

	for _, spec := range schema.Attributes {
		value, ok := attrs[spec.Name]
		if !ok || value == nil {
			if spec.Required {
				return ac.Inconsistent(spec.Name, nil, "is required by the task type")
			}
			continue
		}
		if msg := checkAttribute(spec, value); msg != "" {
			return ac.Inconsistent(spec.Name, value, msg)
		}
	}

	var unknown []string
	for name := range attrs {
		if _, ok := schema.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return ac.Inconsistent(unknown[0], attrs[unknown[0]], "is not declared by the task type")
	}
	return nil
}

func checkAttribute(spec lookup.AttributeSpec, value any) string {
	switch spec.Type {
	case lookup.AttributeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("must be a string (got %T)", value)
		}
		if strings.TrimSpace(s) == "" {
			return "must not be blank"
		}
		if len(spec.Values) > 0 && !slices.Contains(spec.Values, s) {
			return fmt.Sprintf("must be one of %s (got %q)", strings.Join(spec.Values, ", "), s)
		}
	case lookup.AttributeNumber:
		if _, ok := number(value); !ok {
			return fmt.Sprintf("must be a number (got %T)", value)
		}
	case lookup.AttributeInteger:
		f, ok := number(value)
		if !ok || f != math.Trunc(f) {
			return fmt.Sprintf("must be an integer (got %v)", value)
		}
	case lookup.AttributeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("must be a boolean (got %T)", value)
		}
	case lookup.AttributeDate:
		if !isDate(value) {
			return fmt.Sprintf("must be a date (got %v)", value)
		}
	default:
		return fmt.Sprintf("has unsupported type %q", spec.Type)
	}
	return ""
}

// number accepts the numeric shapes JSON and YAML decoders produce.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isDate(v any) bool {
	switch d := v.(type) {
	case time.Time:
		return !d.IsZero()
	case string:
		if _, err := time.Parse(constants.AttributeDateFormat, d); err == nil {
			return true
		}
		_, err := time.Parse(constants.AttributeDayFormat, d)
		return err == nil
	}
	return false
}
