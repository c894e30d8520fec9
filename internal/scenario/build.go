package scenario

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ivlev/phenomenon/internal/deck"
	"github.com/ivlev/phenomenon/internal/lightning/ease"
	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/lightning/values"
)

func invalid(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDeck, path, fmt.Sprintf(format, args...))
}

func wrap(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidDeck, path, err)
}

// Validate checks the deck header and elements. Timeline problems are
// reported by Build.
func (d *Deck) Validate() error {
	var errs []error
	add := func(err error) { errs = append(errs, err) }

	if d.Version != CurrentVersion {
		add(invalid("version", "unsupported version %q", d.Version))
	}
	if d.Width <= 0 || d.Height <= 0 {
		add(invalid("size", "%dx%d must be positive", d.Width, d.Height))
	}
	if d.Background != "" {
		if _, _, _, _, err := values.ParseHex(d.Background); err != nil {
			add(wrap("background", err))
		}
	}

	seen := make(map[string]bool, len(d.Elements))
	for i, el := range d.Elements {
		path := fmt.Sprintf("elements[%d]", i)
		switch {
		case el.ID == "":
			add(invalid(path, "missing id"))
		case seen[el.ID]:
			add(invalid(path, "duplicate id %q", el.ID))
		}
		seen[el.ID] = true

		if el.W < 0 || el.H < 0 {
			add(invalid(path, "negative size %dx%d", el.W, el.H))
		}
		for _, c := range []struct{ name, v string }{{"fill", el.Fill}, {"color", el.Color}} {
			if c.v == "" {
				continue
			}
			if _, _, _, _, err := values.ParseHex(c.v); err != nil {
				add(wrap(path+"."+c.name, err))
			}
		}

		switch el.Kind {
		case KindBox:
		case KindText:
			if el.Text == "" {
				add(invalid(path, "text element without text"))
			}
		case KindImage, KindPDF:
			if el.Src == "" {
				add(invalid(path, "%s element without src", el.Kind))
			}
			if el.Page < 0 {
				add(invalid(path, "negative page %d", el.Page))
			}
		case KindQR:
			if el.Content == "" {
				add(invalid(path, "qr element without content"))
			}
		default:
			add(invalid(path, "unknown kind %q", el.Kind))
		}
	}

	return errors.Join(errs...)
}

// Element returns the element with the given id.
func (d *Deck) Element(id string) (Element, bool) {
	for _, el := range d.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// Build validates the deck, converts every step's timeline and compiles the
// steps into one deck.
func (d *Deck) Build() (*deck.Deck, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	c := converter{known: make(map[string]bool, len(d.Elements))}
	for _, el := range d.Elements {
		c.known[el.ID] = true
	}

	b := deck.NewBuilder()
	for i, s := range d.Steps {
		path := fmt.Sprintf("steps[%d]", i)
		id, err := deck.ParseID(s.ID)
		if err != nil {
			return nil, wrap(path+".id", err)
		}
		n, err := c.node(s.Timeline, path+".timeline")
		if err != nil {
			return nil, err
		}
		b.Add(deck.Step{ID: id, Node: n, Title: s.Title, WithPrevious: s.WithPrevious})
	}

	compiled, err := b.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	return compiled, nil
}

type converter struct {
	known map[string]bool
}

func millis(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func (s NodeSpec) kinds() []string {
	var k []string
	if s.Animate != "" {
		k = append(k, "animate")
	}
	if s.Sequence != nil {
		k = append(k, "sequence")
	}
	if s.Parallel != nil {
		k = append(k, "parallel")
	}
	if s.Cascade != nil {
		k = append(k, "cascade")
	}
	if s.FromTo != nil {
		k = append(k, "from_to")
	}
	if s.Set != nil {
		k = append(k, "set")
	}
	if s.Delay != nil {
		k = append(k, "delay")
	}
	if s.Pause {
		k = append(k, "pause")
	}
	return k
}

func (c *converter) node(s NodeSpec, path string) (timeline.Node, error) {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return nil, invalid(path, "expected exactly one node kind, got %v", kinds)
	}
	if s.Body != nil && s.Animate == "" {
		return nil, invalid(path, "body without animate")
	}

	switch kinds[0] {
	case "animate":
		if !c.known[s.Animate] {
			return nil, invalid(path, "unknown element %q", s.Animate)
		}
		if len(s.Body) == 0 {
			return nil, invalid(path, "animation of %q has no body", s.Animate)
		}
		children, err := c.nodes(s.Body, path+".body")
		if err != nil {
			return nil, err
		}
		return timeline.Animate(timeline.Target(s.Animate), children...), nil

	case "sequence":
		children, err := c.nodes(s.Sequence, path+".sequence")
		if err != nil {
			return nil, err
		}
		return timeline.Sequence(children...), nil

	case "parallel":
		children, err := c.nodes(s.Parallel, path+".parallel")
		if err != nil {
			return nil, err
		}
		return timeline.Parallel(children...), nil

	case "cascade":
		if s.Cascade.Offset < 0 {
			return nil, wrap(path+".cascade.offset", timeline.ErrNegativeDuration)
		}
		children, err := c.nodes(s.Cascade.Children, path+".cascade.children")
		if err != nil {
			return nil, err
		}
		return timeline.Cascade(timeline.Stagger(millis(s.Cascade.Offset)), children...), nil

	case "from_to":
		return c.fromTo(*s.FromTo, path+".from_to")

	case "set":
		if len(s.Set) == 0 {
			return nil, invalid(path+".set", "no properties")
		}
		props := make(map[string][2]any, len(s.Set))
		for name, sw := range s.Set {
			props[name] = [2]any{sw.From, sw.To}
		}
		return timeline.Set(props), nil

	case "delay":
		seg, err := timeline.NewDelay(millis(*s.Delay))
		if err != nil {
			return nil, wrap(path+".delay", err)
		}
		return &timeline.Leaf{Segment: seg}, nil

	default:
		return timeline.Pause(), nil
	}
}

func (c *converter) nodes(specs []NodeSpec, path string) ([]timeline.Node, error) {
	out := make([]timeline.Node, 0, len(specs))
	for i, s := range specs {
		n, err := c.node(s, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *converter) fromTo(s FromToSpec, path string) (timeline.Node, error) {
	e, err := ease.Lookup(s.Ease)
	if err != nil {
		return nil, wrap(path+".ease", err)
	}
	if len(s.Props) == 0 {
		return nil, invalid(path+".props", "no properties")
	}

	names := make([]string, 0, len(s.Props))
	for name := range s.Props {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make(timeline.Props, len(names))
	for _, name := range names {
		v, err := decodeValue(s.Props[name])
		if err != nil {
			return nil, wrap(path+".props."+name, err)
		}
		props[name] = v
	}

	seg, err := timeline.NewTween(props, millis(s.Duration), e)
	if err != nil {
		return nil, wrap(path+".duration", err)
	}
	return &timeline.Leaf{Segment: seg}, nil
}
