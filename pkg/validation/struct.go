package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/fieldpath"
)

// structValidate is the shared tag validator. Field names are reported by
// their json tag so violations carry wire paths.
var structValidate *validator.Validate

func init() {
	structValidate = validator.New(validator.WithRequiredStructEnabled())
	structValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Struct checks the `validate` tags of v and reports the first failing tag,
// in declaration order, as a field violation below the context path.
//
// Nested records must opt out with `validate:"-"`; they validate themselves
// so their paths and traversal order stay under the model's control.
func Struct(vc *Context, v any) error {
	err := structValidate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return vc.Violation("", nil, err.Error())
	}
	fe := verrs[0]
	return errors.NewFieldViolation(vc.Path().Join(namespacePath(fe.Namespace())), fe.Value(), tagMessage(fe))
}

// namespacePath converts "Task.keywords[2]" to keywords[2]; the leading
// segment is the struct type name.
func namespacePath(ns string) fieldpath.Path {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return fieldpath.Root()
	}
	p, err := fieldpath.Parse(rest)
	if err != nil {
		return fieldpath.New(rest)
	}
	return p
}

func tagMessage(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must contain at most %s items", param)
		}
		return fmt.Sprintf("must be at most %s", param)
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(param, " ", ", "))
	case "uuid", "uuid4":
		return "must be a UUID"
	case "email":
		return "must be an email address"
	case "url":
		return "must be a URL"
	}
	if param != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), param)
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
