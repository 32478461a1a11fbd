package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/deckschema/node"
)

// color resolves the first color of the choice group. RGB colors are
// returned as #RRGGBB, theme colors as scheme:<name>. Alpha defaults to 1.
func (c *colorChoiceXML) color() (string, float64) {
	var (
		v   *colorValXML
		out string
	)
	switch {
	case c.SrgbClr != nil:
		v = c.SrgbClr
		out = "#" + strings.ToUpper(v.Val)
	case c.SchemeClr != nil:
		v = c.SchemeClr
		out = "scheme:" + v.Val
	case c.SysClr != nil:
		v = c.SysClr
		out = "system:" + v.Val
		if v.LastClr != "" {
			out = "#" + strings.ToUpper(v.LastClr)
		}
	case c.PrstClr != nil:
		v = c.PrstClr
		out = "preset:" + v.Val
	default:
		return "", 0
	}

	alpha := 1.0
	if v.Alpha != nil {
		if n, err := strconv.Atoi(v.Alpha.Val); err == nil {
			alpha = float64(n) / 100000
		}
	}
	return out, alpha
}

// fill converts a fill choice. It returns nil when no fill is declared.
func (s *Slide) fill(f *fillChoiceXML) *node.Fill {
	if f == nil {
		return nil
	}
	switch {
	case f.NoFill != nil:
		return &node.Fill{Type: "none"}
	case f.SolidFill != nil:
		fill := &node.Fill{Type: "solid"}
		fill.Color, fill.Alpha = f.SolidFill.color()
		return fill
	case f.GradFill != nil:
		fill := &node.Fill{Type: "gradient", Alpha: 1}
		for _, gs := range f.GradFill.GsLst.Gs {
			color, _ := gs.color()
			fill.Stops = append(fill.Stops, node.GradientStop{
				Position: percentage(gs.Pos),
				Color:    color,
			})
		}
		if lin := f.GradFill.Lin; lin != nil {
			if ang, err := strconv.Atoi(lin.Ang); err == nil {
				fill.Angle = float64(ang) / 60000
			}
		}
		return fill
	case f.BlipFill != nil:
		fill := &node.Fill{Type: "picture", Alpha: 1}
		if rid := f.BlipFill.Blip.Embed; rid != "" {
			if target, _, err := s.target(rid); err == nil {
				fill.Target = target
			}
		}
		return fill
	case f.PattFill != nil:
		fill := &node.Fill{Type: "pattern", Alpha: 1}
		if f.PattFill.FgClr != nil {
			fill.Color, _ = f.PattFill.FgClr.color()
		}
		return fill
	}
	return nil
}

// lineOf converts an outline.
func lineOf(ln *lnXML) (*node.Line, error) {
	line := &node.Line{}
	if ln.W != "" {
		w, err := strconv.ParseInt(ln.W, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line width %q: %w", ln.W, err)
		}
		line.Width = w
	}
	switch {
	case ln.NoFill != nil:
		line.None = true
	case ln.SolidFill != nil:
		line.Color, _ = ln.SolidFill.color()
	}
	if ln.PrstDash != nil {
		line.Dash = ln.PrstDash.Val
	}
	return line, nil
}

// effectsOf converts an effect list in schema order.
func effectsOf(lst *effectLstXML) []node.Effect {
	var out []node.Effect
	if sh := lst.OuterShdw; sh != nil {
		color, _ := sh.color()
		out = append(out, node.Effect{Type: "outerShadow", Color: color, Radius: emu(sh.BlurRad), Distance: emu(sh.Dist)})
	}
	if sh := lst.InnerShdw; sh != nil {
		color, _ := sh.color()
		out = append(out, node.Effect{Type: "innerShadow", Color: color, Radius: emu(sh.BlurRad), Distance: emu(sh.Dist)})
	}
	if g := lst.Glow; g != nil {
		color, _ := g.color()
		out = append(out, node.Effect{Type: "glow", Color: color, Radius: emu(g.Rad)})
	}
	if e := lst.SoftEdge; e != nil {
		out = append(out, node.Effect{Type: "softEdge", Radius: emu(e.Rad)})
	}
	if lst.Reflection != nil {
		out = append(out, node.Effect{Type: "reflection"})
	}
	if b := lst.Blur; b != nil {
		out = append(out, node.Effect{Type: "blur", Radius: emu(b.Rad)})
	}
	return out
}

func emu(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
