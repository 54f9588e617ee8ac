package lookup

import (
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/modelsync/pkg/errors"
)

// Fixture is the on-disk description of the entities a Memory gateway knows.
//
//	profiles: [u1, u2]
//	apps: [crm]
//	task_types:
//	  - id: bug
//	    attributes:
//	      - name: severity
//	        type: string
//	        required: true
//	        values: [low, high]
type Fixture struct {
	Profiles  []string          `yaml:"profiles" json:"profiles"`
	Apps      []string          `yaml:"apps" json:"apps"`
	TaskTypes []FixtureTaskType `yaml:"task_types" json:"task_types"`
}

// FixtureTaskType is a task type entry of a Fixture.
type FixtureTaskType struct {
	ID         string          `yaml:"id" json:"id"`
	Attributes []AttributeSpec `yaml:"attributes" json:"attributes"`
}

// Memory builds an in-memory gateway holding the fixture's entities.
func (f *Fixture) Memory() *Memory {
	m := NewMemory()
	m.PutProfiles(f.Profiles...)
	m.PutApps(f.Apps...)
	for _, tt := range f.TaskTypes {
		m.PutTaskType(tt.ID, &Schema{Attributes: tt.Attributes})
	}
	return m
}

// Decode parses a YAML (or JSON) fixture into an in-memory gateway.
func Decode(data []byte) (*Memory, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f.Memory(), nil
}

// LoadFile reads a fixture file into an in-memory gateway.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path is user supplied on purpose
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, errors.NewParseError("yaml", path, err.Error(), err)
	}
	return f.Memory(), nil
}

func (f *Fixture) validate() error {
	for _, tt := range f.TaskTypes {
		if tt.ID == "" {
			return errors.NewParseError("yaml", "", "task type without id", nil)
		}
		for _, spec := range tt.Attributes {
			if spec.Name == "" {
				return errors.NewParseError("yaml", "", "task type "+tt.ID+" declares an attribute without name", nil)
			}
			if !validAttributeType(spec.Type) {
				return errors.NewParseError("yaml", "", "task type "+tt.ID+" attribute "+spec.Name+" has unknown type "+string(spec.Type), nil)
			}
		}
	}
	return nil
}

func validAttributeType(t AttributeType) bool {
	return slices.Contains(AttributeTypes(), t)
}
