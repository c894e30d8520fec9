package values

import (
	"strings"

	"github.com/ivlev/phenomenon/internal/lightning/ease"
)

var aliases = map[string]string{
	"x": "translateX",
	"y": "translateY",
	"z": "translateZ",
}

// Part is one function of a transform, e.g. scale or rotate.
type Part struct {
	Name  string
	Value Value
}

// P builds a Part. The short names x, y and z expand to translateX/Y/Z.
func P(name string, v Value) Part {
	if full, ok := aliases[name]; ok {
		name = full
	}
	return Part{Name: name, Value: v}
}

// Transform composes several values into one transform string in declared order.
type Transform struct {
	Parts []Part
}

func NewTransform(parts ...Part) *Transform {
	return &Transform{Parts: parts}
}

func (tr *Transform) Interpolate(t float64, e ease.Func) any {
	var sb strings.Builder
	for i, p := range tr.Parts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.Name)
		sb.WriteByte('(')
		switch v := p.Value.Interpolate(t, e).(type) {
		case float64:
			sb.WriteString(FormatNumber(v))
		case string:
			sb.WriteString(v)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}
