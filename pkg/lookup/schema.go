package lookup

// AttributeType is the declared type of a schema-free attribute.
type AttributeType string

// String returns the string representation of an AttributeType.
func (t AttributeType) String() string {
	return string(t)
}

// Attribute types.
const (
	AttributeString  AttributeType = "string"  // Non-blank text
	AttributeNumber  AttributeType = "number"  // Any numeric value
	AttributeInteger AttributeType = "integer" // Integral numeric value
	AttributeBoolean AttributeType = "boolean" // true or false
	AttributeDate    AttributeType = "date"    // RFC 3339 timestamp or YYYY-MM-DD
)

// AttributeTypes returns every known attribute type.
func AttributeTypes() []AttributeType {
	return []AttributeType{AttributeString, AttributeNumber, AttributeInteger, AttributeBoolean, AttributeDate}
}

// AttributeSpec declares one attribute of a Schema.
type AttributeSpec struct {
	Name     string        `json:"name" yaml:"name"`
	Type     AttributeType `json:"type" yaml:"type"`
	Required bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Values   []string      `json:"values,omitempty" yaml:"values,omitempty"` // Allowed values for string attributes
}

// Schema is the attribute shape a referenced type declares.
type Schema struct {
	Attributes []AttributeSpec `json:"attributes" yaml:"attributes"`
}

// Lookup finds the spec for an attribute name.
func (s *Schema) Lookup(name string) (AttributeSpec, bool) {
	if s == nil {
		return AttributeSpec{}, false
	}
	for _, spec := range s.Attributes {
		if spec.Name == name {
			return spec, true
		}
	}
	return AttributeSpec{}, false
}
