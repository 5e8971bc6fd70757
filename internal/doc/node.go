// Package doc defines the canonical document tree for .op design files:
// the node variant set, the value types that may hold $variable references,
// and the pure structural operations the rest of the engine is built on.
package doc

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind discriminates the closed set of node variants. Every switch over a
// Kind in this repository must carry all nine cases.
type Kind string

const (
	KindFrame     Kind = "frame"
	KindGroup     Kind = "group"
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindPolygon   Kind = "polygon"
	KindPath      Kind = "path"
	KindText      Kind = "text"
	KindRef       Kind = "ref"
)

// Kinds lists every node variant, in the order they appear on the wire.
var Kinds = []Kind{
	KindFrame, KindGroup, KindRectangle, KindEllipse, KindLine,
	KindPolygon, KindPath, KindText, KindRef,
}

// Valid reports whether k names a known variant.
func (k Kind) Valid() bool {
	switch k {
	case KindFrame, KindGroup, KindRectangle, KindEllipse, KindLine,
		KindPolygon, KindPath, KindText, KindRef:
		return true
	}
	return false
}

// Container reports whether the variant carries children of its own.
func (k Kind) Container() bool {
	switch k {
	case KindFrame, KindGroup, KindRectangle:
		return true
	case KindEllipse, KindLine, KindPolygon, KindPath, KindText, KindRef:
		return false
	}
	return false
}

// Reusable reports whether the variant may be flagged as a component
// definition. Only containers qualify.
func (k Kind) Reusable() bool { return k.Container() }

// Sizing keywords accepted in place of a concrete width/height.
const (
	SizeFitContent    = "fit_content"
	SizeFillContainer = "fill_container"
)

// Scalar is a numeric field that may instead hold a $variable reference.
// On the wire it is either a JSON number or a string.
//
// Unparseable numeric strings canonicalize to 1 at decode time. The source
// implementation disagreed with itself between 1 and 0 at different call
// sites; 1 is the canonical fallback here so that a stroke or gap that
// exists stays visible.
type Scalar struct {
	Num float64
	Ref string // "$name" when the value is a variable reference
}

// Num returns a Scalar holding a concrete number.
func Num(v float64) *Scalar { return &Scalar{Num: v} }

// RefScalar returns a Scalar holding a $variable reference.
func RefScalar(ref string) *Scalar { return &Scalar{Ref: ref} }

// IsRef reports whether the scalar is an unresolved $variable reference.
func (s *Scalar) IsRef() bool { return s != nil && s.Ref != "" }

// Float returns the concrete value, or fallback when the scalar is nil or
// still a reference.
func (s *Scalar) Float(fallback float64) float64 {
	if s == nil || s.Ref != "" {
		return fallback
	}
	return s.Num
}

// Size is a width/height value: a concrete pixel count, a sizing keyword,
// or a $variable reference.
type Size struct {
	Px      float64
	Keyword string // SizeFitContent or SizeFillContainer
	Ref     string // "$name"
}

// Px returns a fixed pixel Size.
func Px(v float64) *Size { return &Size{Px: v} }

// Fixed reports whether the size is a concrete pixel value.
func (s *Size) Fixed() bool { return s != nil && s.Keyword == "" && s.Ref == "" }

// Fill is one paint layer of a node. Type selects which fields apply.
type Fill struct {
	Type  string         `json:"type"` // solid, linear, radial, image
	Color string         `json:"color,omitempty"`
	Stops []GradientStop `json:"stops,omitempty"`
	Angle float64        `json:"angle,omitempty"`
	URL   string         `json:"url,omitempty"`
}

// GradientStop is one entry of a gradient fill.
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Stroke describes the outline paint of a node.
type Stroke struct {
	Color     string  `json:"color,omitempty"`
	Thickness *Scalar `json:"thickness,omitempty"`
	Align     string  `json:"align,omitempty"` // inside, center, outside
}

// Effect is a visual effect layer (currently shadows).
type Effect struct {
	Type   string  `json:"type"` // shadow
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Blur   *Scalar `json:"blur,omitempty"`
	Spread float64 `json:"spread,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// Point is a vertex of a line or polygon, relative to the node origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Patch is a partial-node update, keyed by wire field names. Values merge
// structurally: nested maps merge, everything else replaces.
type Patch = map[string]any

// Node is one element of the document tree. Which fields are meaningful
// depends on Kind; the JSON codec never emits fields a variant does not
// carry because everything irrelevant stays at its zero value.
type Node struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"type"`
	Name     string  `json:"name,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Rotation float64 `json:"rotation,omitempty"` // degrees
	Opacity  *Scalar `json:"opacity,omitempty"`  // 0..1 or $variable
	FlipX    bool    `json:"flipX,omitempty"`
	FlipY    bool    `json:"flipY,omitempty"`
	Hidden   bool    `json:"hidden,omitempty"`
	Locked   bool    `json:"locked,omitempty"`

	// Container fields (frame, group, rectangle).
	Width          *Size   `json:"width,omitempty"`
	Height         *Size   `json:"height,omitempty"`
	Children       []*Node `json:"children,omitempty"`
	Layout         string  `json:"layout,omitempty"` // row, column
	Gap            *Scalar `json:"gap,omitempty"`
	Padding        *Scalar `json:"padding,omitempty"`
	JustifyContent string  `json:"justifyContent,omitempty"`
	AlignItems     string  `json:"alignItems,omitempty"`
	Fill           []Fill  `json:"fill,omitempty"`
	Stroke         *Stroke `json:"stroke,omitempty"`
	CornerRadius   *Scalar `json:"cornerRadius,omitempty"`
	Effects        []Effect `json:"effects,omitempty"`

	// frame only: marks this container as a component definition.
	Reusable bool `json:"reusable,omitempty"`

	// ref only: target component id plus per-instance overrides keyed by
	// the ORIGINAL descendant ids of the component definition.
	Ref         string           `json:"ref,omitempty"`
	Descendants map[string]Patch `json:"descendants,omitempty"`

	// text only.
	Content    string  `json:"content,omitempty"`
	FontSize   *Scalar `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`

	// line / polygon vertices, path data.
	Points []Point `json:"points,omitempty"`
	D      string  `json:"d,omitempty"`
}

// NewID returns a fresh node id. Ids are assigned once at creation and
// never reused.
func NewID() string { return uuid.NewString() }

// IsVarRef reports whether a string field holds a $variable reference.
func IsVarRef(s string) bool { return strings.HasPrefix(s, "$") }

// ParseLoose parses legacy numeric strings ("12", "12px"). It returns 1
// for anything unparseable, per the canonical fallback rule.
func ParseLoose(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	return v
}
