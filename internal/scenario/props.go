package scenario

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/ivlev/phenomenon/internal/lightning/values"
)

type numberSpec struct {
	From float64 `mapstructure:"from"`
	To   float64 `mapstructure:"to"`
	Unit string  `mapstructure:"unit"`
}

type colorSpec struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

type partSpec struct {
	Fn   string  `mapstructure:"fn"`
	From float64 `mapstructure:"from"`
	To   float64 `mapstructure:"to"`
	Unit string  `mapstructure:"unit"`
}

// decodeValue picks the value descriptor from the shape of raw:
// a from/to map of numbers, a from/to map of hex colours, or an ordered
// list of transform functions.
func decodeValue(raw any) (values.Value, error) {
	switch v := raw.(type) {
	case map[string]any:
		if err := requireKeys(v, "from", "to"); err != nil {
			return nil, err
		}
		if _, ok := v["from"].(string); ok {
			var cs colorSpec
			if err := decodeStrict(v, &cs); err != nil {
				return nil, fmt.Errorf("failed to decode colour: %w", err)
			}
			return values.NewColor(cs.From, cs.To)
		}
		var ns numberSpec
		if err := decodeStrict(v, &ns); err != nil {
			return nil, fmt.Errorf("failed to decode number: %w", err)
		}
		return values.Val(ns.From, ns.To, ns.Unit), nil

	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty transform")
		}
		parts := make([]values.Part, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("transform[%d]: invalid definition type: %T", i, item)
			}
			if err := requireKeys(m, "fn", "from", "to"); err != nil {
				return nil, fmt.Errorf("transform[%d]: %w", i, err)
			}
			var ps partSpec
			if err := decodeStrict(m, &ps); err != nil {
				return nil, fmt.Errorf("transform[%d]: %w", i, err)
			}
			parts = append(parts, values.P(ps.Fn, values.Val(ps.From, ps.To, ps.Unit)))
		}
		return values.NewTransform(parts...), nil

	default:
		return nil, fmt.Errorf("invalid property definition type: %T", raw)
	}
}

func requireKeys(m map[string]any, keys ...string) error {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return fmt.Errorf("missing %q", k)
		}
	}
	return nil
}

func decodeStrict(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
