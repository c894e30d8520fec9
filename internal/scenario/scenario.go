// Package scenario reads and writes deck files and turns them into a compiled
// deck.
package scenario

import "errors"

// ErrInvalidDeck wraps every validation failure of a deck file.
var ErrInvalidDeck = errors.New("invalid deck")

const CurrentVersion = "1"

// Element kinds
const (
	KindBox   = "box"
	KindText  = "text"
	KindImage = "image"
	KindPDF   = "pdf"
	KindQR    = "qr"
)

// Deck represents a complete presentation file
type Deck struct {
	Version    string    `yaml:"version"`
	Title      string    `yaml:"title,omitempty"`
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	Background string    `yaml:"background,omitempty"`
	Elements   []Element `yaml:"elements"`
	Steps      []Step    `yaml:"steps"`
}

// Element is something on the slide that animations can target
type Element struct {
	ID      string `yaml:"id"`
	Kind    string `yaml:"kind"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	W       int    `yaml:"w"`
	H       int    `yaml:"h"`
	Fill    string `yaml:"fill,omitempty"`
	Color   string `yaml:"color,omitempty"`
	Text    string `yaml:"text,omitempty"`
	Src     string `yaml:"src,omitempty"`     // image or PDF path
	Page    int    `yaml:"page,omitempty"`    // PDF page, zero-based
	Content string `yaml:"content,omitempty"` // QR payload
}

// Step is one stop of the presentation
type Step struct {
	ID           string   `yaml:"id"` // dotted, e.g. "2.1" or "-1"
	Title        string   `yaml:"title,omitempty"`
	WithPrevious bool     `yaml:"with_previous,omitempty"`
	Timeline     NodeSpec `yaml:"timeline"`
}

// NodeSpec is a timeline node. Exactly one of the kind fields is set;
// Body only accompanies Animate.
type NodeSpec struct {
	Animate  string              `yaml:"animate,omitempty"`
	Body     []NodeSpec          `yaml:"body,omitempty"`
	Sequence []NodeSpec          `yaml:"sequence,omitempty"`
	Parallel []NodeSpec          `yaml:"parallel,omitempty"`
	Cascade  *CascadeSpec        `yaml:"cascade,omitempty"`
	FromTo   *FromToSpec         `yaml:"from_to,omitempty"`
	Set      map[string]SwapSpec `yaml:"set,omitempty"`
	Delay    *int64              `yaml:"delay,omitempty"` // milliseconds
	Pause    bool                `yaml:"pause,omitempty"`
}

type CascadeSpec struct {
	Offset   int64      `yaml:"offset"` // milliseconds between children
	Children []NodeSpec `yaml:"children"`
}

type FromToSpec struct {
	Duration int64          `yaml:"duration"` // milliseconds
	Ease     string         `yaml:"ease,omitempty"`
	Props    map[string]any `yaml:"props"`
}

type SwapSpec struct {
	From any `yaml:"from"`
	To   any `yaml:"to"`
}
