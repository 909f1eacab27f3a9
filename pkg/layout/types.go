package layout

import (
	"fmt"
	"strings"
)

// Side is the side of the device a pin row sits on.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

var sideNames = []string{"LEFT", "RIGHT", "TOP", "BOTTOM"}

func (s Side) String() string { return sideNames[s] }

// Dir is the horizontal direction geometry grows in: -1 for LEFT and TOP,
// +1 for RIGHT and BOTTOM.
func (s Side) Dir() float64 {
	if s == SideLeft || s == SideTop {
		return -1
	}
	return 1
}

// ParseSide parses LEFT, RIGHT, TOP or BOTTOM.
func ParseSide(s string) (Side, error) {
	i, err := lookup("side", s, sideNames)
	return Side(i), err
}

// JustifyX is horizontal text alignment. The zero value is centered.
type JustifyX uint8

const (
	XCenter JustifyX = iota
	XLeft
	XRight
)

var justifyXNames = []string{"CENTER", "LEFT", "RIGHT"}

func (j JustifyX) String() string { return justifyXNames[j] }

// Anchor returns the SVG text-anchor for j.
func (j JustifyX) Anchor() string {
	switch j {
	case XLeft:
		return "start"
	case XRight:
		return "end"
	}
	return "middle"
}

// ParseJustifyX parses LEFT, RIGHT or CENTER.
func ParseJustifyX(s string) (JustifyX, error) {
	i, err := lookup("x justification", s, justifyXNames)
	return JustifyX(i), err
}

// JustifyY is vertical alignment. The zero value is centered.
type JustifyY uint8

const (
	YCenter JustifyY = iota
	YTop
	YBottom
)

var justifyYNames = []string{"CENTER", "TOP", "BOTTOM"}

func (j JustifyY) String() string { return justifyYNames[j] }

// ParseJustifyY parses TOP, BOTTOM or CENTER.
func ParseJustifyY(s string) (JustifyY, error) {
	i, err := lookup("y justification", s, justifyYNames)
	return JustifyY(i), err
}

func lookup(what, s string, names []string) (uint8, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range names {
		if n == up {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("invalid %s: %q", what, s)
}
