package validation

// Category is the base type of a constraint description.
type Category string

const (
	CategoryText   Category = "text"
	CategoryNumber Category = "number"
	CategoryDate   Category = "date"
	CategoryList   Category = "list"
)

// CheckKind names a single rule of a constraint description.
type CheckKind string

const (
	CheckMin       CheckKind = "min"
	CheckMax       CheckKind = "max"
	CheckEmail     CheckKind = "email"
	CheckURL       CheckKind = "url"
	CheckUUID      CheckKind = "uuid"
	CheckRegex     CheckKind = "regex"
	CheckInt       CheckKind = "int"
	CheckMinLength CheckKind = "minLength"
	CheckMaxLength CheckKind = "maxLength"
)

// Check is one {kind, value?} rule. Value is a number for bounds, a
// time.Time (or date string) for date bounds and the expression for regex.
type Check struct {
	Kind  CheckKind `json:"kind" yaml:"kind"`
	Value any       `json:"value,omitempty" yaml:"value,omitempty"`
}

// Constraint is a validation-library agnostic description of the values a
// field accepts. It is only used to produce help text; nothing here validates.
type Constraint struct {
	Category Category `json:"category" yaml:"category"`
	Optional bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Nullable bool     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Checks   []Check  `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// Strip returns the constraint without its optional/nullable wrapper flags.
func (c Constraint) Strip() Constraint {
	c.Optional = false
	c.Nullable = false
	return c
}
