package output

import (
	"fmt"
	"strconv"

	"github.com/agentstation/modelsync/internal/documents"
	"github.com/agentstation/modelsync/pkg/errors"
)

// Violation is the printable form of a rejected operation.
type Violation struct {
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// NewViolation converts a FieldError for printing.
func NewViolation(fe *errors.FieldError) Violation {
	return Violation{Path: fe.Path.String(), Kind: string(fe.Kind), Message: fe.Message, Value: fe.Value}
}

// ViolationData renders a violation as a one-row table.
func ViolationData(fe *errors.FieldError) Data {
	v := NewViolation(fe)
	value := ""
	if v.Value != nil {
		value = fmt.Sprintf("%v", v.Value)
	}
	return Data{
		Headers: []string{"Path", "Kind", "Message", "Value"},
		Rows:    [][]string{{v.Path, v.Kind, v.Message, value}},
	}
}

// PlanData renders list plans with one row per element, removed elements last.
func PlanData(plans []documents.ListPlan) Data {
	data := Data{
		Headers:         []string{"Field", "Action", "Key", "Source", "Target"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
	for _, lp := range plans {
		steps := append(lp.Plan.Steps[:len(lp.Plan.Steps):len(lp.Plan.Steps)], lp.Plan.Removed...)
		for _, s := range steps {
			data.Rows = append(data.Rows, []string{
				lp.Field,
				s.Action.String(),
				s.Key,
				index(s.SourceIndex),
				index(s.TargetIndex),
			})
		}
	}
	return data
}

func index(i int) string {
	if i < 0 {
		return "-"
	}
	return strconv.Itoa(i)
}
