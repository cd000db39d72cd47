// Package enum holds the language-neutral representation of an enumeration
// declaration: its name, its value shape and its ordered items.
//
// A GenericEnum is produced by a source-language parser and consumed by a
// target-language converter. Nothing in this package knows about concrete
// language syntax beyond the literal forms used to infer value kinds.
package enum

import "strings"

// Shape classifies an enum by the kinds of values its items carry.
type Shape string

// Constants representing the defined enum shapes.
const (
	// General enums carry no explicit values (classic auto-numbered enums).
	General Shape = "general"
	// Numeric enums give every item a numeric literal value.
	Numeric Shape = "numeric"
	// String enums give every item a quoted string literal value.
	String Shape = "string"
	// Heterogeneous enums mix value kinds, or only value some of their items.
	Heterogeneous Shape = "heterogeneous"
)

// AllShapes lists every shape in declaration order.
var AllShapes = []Shape{General, Numeric, String, Heterogeneous}

// Item is a single enum member. Value is the raw literal token as captured
// from source (trimmed), or nil when the member has no explicit value.
// A nil Value means "no value", never zero.
type Item struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

// NewItem builds an Item with an explicit raw value.
func NewItem(name, value string) Item {
	v := value
	return Item{Name: name, Value: &v}
}

// NewBareItem builds an Item without an explicit value.
func NewBareItem(name string) Item {
	return Item{Name: name}
}

// HasValue reports whether the item carries an explicit value.
func (i Item) HasValue() bool { return i.Value != nil }

// RawValue returns the raw value token, or "" when the item has none.
func (i Item) RawValue() string {
	if i.Value == nil {
		return ""
	}
	return *i.Value
}

// GenericEnum is the language-neutral record of one enum declaration.
// Items keep their source order. Type is fixed once the record is built.
type GenericEnum struct {
	Name  string `json:"name"`
	Type  Shape  `json:"type"`
	Items []Item `json:"items"`
}

// New builds a GenericEnum and classifies it from its items.
func New(name string, items []Item) GenericEnum {
	return GenericEnum{Name: name, Type: Classify(items), Items: items}
}

// ItemNames returns the member names in declaration order.
func (e GenericEnum) ItemNames() []string {
	names := make([]string, len(e.Items))
	for i, item := range e.Items {
		names[i] = item.Name
	}
	return names
}

// CodeFile is a generated output unit handed to the writer.
type CodeFile struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
}

// Classify computes the Shape of an item list.
//
// An empty list or a list where no item has a value is General. When every
// item has a value the list is Numeric or String if all values share that
// kind. Anything else, including a list where only some items are valued,
// is Heterogeneous.
func Classify(items []Item) Shape {
	if len(items) == 0 {
		return General
	}

	valued, numeric, str := 0, 0, 0
	for _, item := range items {
		if item.Value == nil {
			continue
		}
		valued++
		switch KindOf(*item.Value) {
		case ValueNumeric:
			numeric++
		case ValueString:
			str++
		}
	}

	switch {
	case valued == 0:
		return General
	case valued < len(items):
		return Heterogeneous
	case numeric == len(items):
		return Numeric
	case str == len(items):
		return String
	default:
		return Heterogeneous
	}
}

// ParseShape converts a textual shape name into a Shape.
func ParseShape(s string) (Shape, bool) {
	normalized := Shape(strings.ToLower(strings.TrimSpace(s)))
	for _, shape := range AllShapes {
		if shape == normalized {
			return shape, true
		}
	}
	return "", false
}
