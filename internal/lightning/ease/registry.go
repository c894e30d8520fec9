package ease

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownEase is returned by Lookup for names that are not registered.
var ErrUnknownEase = errors.New("unknown ease")

var registry = map[string]Func{
	"linear":         Linear,
	"easeOutElastic": EaseOutElastic,
	"easeInOutCubic": EaseInOutCubic,
	"easeInQuad":     EaseInQuad,
	"easeOutQuad":    EaseOutQuad,
	"easeOutCubic":   EaseOutCubic,
	"easeOutBack":    EaseOutBack,
}

// Lookup resolves an ease by name. The empty name resolves to Linear.
func Lookup(name string) (Func, error) {
	if name == "" {
		return Linear, nil
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEase, name)
	}
	return fn, nil
}

// Names lists the registered eases in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
