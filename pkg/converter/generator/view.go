package generator

import (
	"strconv"
	"strings"

	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stackvity/enum-converter/pkg/converter/language"
)

// dialect holds the target-specific literal and type rules the templates
// cannot express themselves.
type dialect struct {
	quote func(text string) string

	intType    string
	floatType  string
	stringType string
	// longType and longSuffix serve integers outside the int32 range.
	longType   string
	longSuffix string
	// otherType types values that are neither numeric nor string literals,
	// e.g. "1 << 2". Empty when the target infers it.
	otherType string

	// native optionally narrows Configuration.Supports for enums whose
	// shape is supported but whose values the native block cannot hold.
	native func(e enum.GenericEnum) bool
	// wide reports whether an integer enum needs a 64-bit backing type.
	wide func(e enum.GenericEnum) bool
}

var dialects = map[language.ID]dialect{
	language.CSharp: {
		quote:      enum.DoubleQuote,
		intType:    "int",
		floatType:  "double",
		stringType: "string",
		otherType:  "object",
		longType:   "long",
		native:     func(e enum.GenericEnum) bool { return !hasFloat(e) },
		wide:       exceedsInt32,
	},
	language.TypeScript: {
		quote:      enum.DoubleQuote,
		intType:    "number",
		floatType:  "number",
		stringType: "string",
	},
	language.JavaScript: {
		quote: enum.DoubleQuote,
	},
	language.Dart: {
		quote:      dartQuote,
		intType:    "int",
		floatType:  "double",
		stringType: "String",
		otherType:  "dynamic",
		// Dart rejects enums without values.
		native: func(e enum.GenericEnum) bool { return len(e.Items) > 0 },
	},
	language.Java: {
		quote:      enum.DoubleQuote,
		intType:    "int",
		floatType:  "double",
		stringType: "String",
		otherType:  "Object",
		longType:   "long",
		longSuffix: "L",
		wide:       exceedsInt32,
	},
	language.Python: {
		quote:      enum.DoubleQuote,
		intType:    "int",
		floatType:  "float",
		stringType: "str",
	},
	language.Go: {
		quote:      enum.DoubleQuote,
		intType:    "int",
		floatType:  "float64",
		stringType: "string",
	},
}

// enumView is the data handed to a template.
type enumView struct {
	Name      string
	Shape     enum.Shape
	General   bool
	ValueType string
	Wide      bool
	Indent    string
	Items     []itemView
}

type itemView struct {
	Name     string
	Value    string
	HasValue bool
	Type     string
	// Constant is false for values that are not plain literals.
	Constant bool
	Index    int
	Last     bool
}

// view builds template data for e. With fill set, items lacking a value get
// their declaration index so every member has something to return, and a
// bare member never follows a string member.
func (c *TemplateConverter) view(e enum.GenericEnum, fill bool) enumView {
	d := c.dialect
	v := enumView{
		Name:      enum.ApplyCasing(c.config.NameCasing, e.Name),
		Shape:     e.Type,
		General:   e.Type == enum.General,
		ValueType: d.valueType(e),
		Indent:    c.config.Indent(),
		Items:     make([]itemView, len(e.Items)),
	}
	if d.wide != nil {
		v.Wide = d.wide(e)
		if v.Wide && v.ValueType == d.intType {
			v.ValueType = d.longType
		}
	}

	for i, item := range e.Items {
		iv := itemView{
			Name:     enum.ApplyCasing(c.config.ItemCasing, item.Name),
			Index:    i,
			Last:     i == len(e.Items)-1,
			Constant: true,
		}
		switch enum.ItemKind(item) {
		case enum.ValueNone:
			iv.Type = d.intType
			if fill {
				iv.Value = strconv.Itoa(i)
				iv.HasValue = true
			}
		case enum.ValueNumeric:
			iv.Value = numberLiteral(item.RawValue())
			iv.HasValue = true
			iv.Type = d.intType
			switch {
			case enum.IsFloat(item.RawValue()):
				iv.Type = d.floatType
			case d.wide != nil && !fitsInt32(item.RawValue()):
				iv.Type = d.longType
				iv.Value += d.longSuffix
			}
		case enum.ValueString:
			iv.Value = d.quote(enum.StringContent(item.RawValue()))
			iv.HasValue = true
			iv.Type = d.stringType
		default:
			iv.Value = item.RawValue()
			iv.HasValue = true
			iv.Type = d.otherType
			iv.Constant = false
		}
		v.Items[i] = iv
	}
	return v
}

// valueType is the backing type of a natively rendered enum.
func (d dialect) valueType(e enum.GenericEnum) string {
	switch e.Type {
	case enum.General:
		return d.intType
	case enum.Numeric:
		if hasFloat(e) {
			return d.floatType
		}
		return d.intType
	case enum.String:
		return d.stringType
	default:
		return d.otherType
	}
}

func hasFloat(e enum.GenericEnum) bool {
	for _, item := range e.Items {
		if enum.ItemKind(item) == enum.ValueNumeric && enum.IsFloat(item.RawValue()) {
			return true
		}
	}
	return false
}

func exceedsInt32(e enum.GenericEnum) bool {
	for _, item := range e.Items {
		if enum.ItemKind(item) != enum.ValueNumeric || enum.IsFloat(item.RawValue()) {
			continue
		}
		if !fitsInt32(item.RawValue()) {
			return true
		}
	}
	return false
}

// fitsInt32 reports whether an integer literal fits a 32-bit signed int.
func fitsInt32(raw string) bool {
	n, err := strconv.ParseInt(strings.TrimPrefix(raw, "+"), 0, 64)
	return err == nil && n <= 1<<31-1 && n >= -1<<31
}

// numberLiteral rewrites octal and binary prefixes, which not every target
// accepts, as decimal. Other numeric tokens pass through without a leading '+'.
func numberLiteral(raw string) string {
	raw = strings.TrimPrefix(raw, "+")
	unsigned := strings.TrimPrefix(raw, "-")
	if len(unsigned) > 1 && unsigned[0] == '0' && strings.ContainsAny(unsigned[1:2], "oObB") {
		if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
	}
	return raw
}

// dartQuote double-quotes text and escapes '$' so it is not read as
// interpolation.
func dartQuote(text string) string {
	return strings.ReplaceAll(enum.DoubleQuote(text), "$", `\$`)
}
