package pptx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/deckschema/node"
)

// Slide represents a parsed slide. It implements node.Slide.
type Slide struct {
	reader *Reader
	index  int
	path   string
	rels   *relationshipsXML
	xml    *slideXML
	err    error // set when the slide part could not be decoded
	shapes []node.Shape
	notes  string
}

var _ node.Slide = (*Slide)(nil)

// Index returns the 0-based position of the slide.
func (s *Slide) Index() int { return s.index }

// Path returns the part name of the slide.
func (s *Slide) Path() string { return s.path }

// Name returns the common slide data name attribute.
func (s *Slide) Name() string {
	if s.xml == nil {
		return ""
	}
	return s.xml.CSld.Name
}

// Hidden reports whether the slide is excluded from the slide show.
func (s *Slide) Hidden() bool {
	if s.xml == nil {
		return false
	}
	return s.xml.Show == "0" || s.xml.Show == "false"
}

// Notes returns the speaker notes text.
func (s *Slide) Notes() string { return s.notes }

// Shapes returns the slide shapes in z-order.
func (s *Slide) Shapes() ([]node.Shape, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.shapes, nil
}

// Background returns the slide's own background, or nil when it inherits
// one from its layout.
func (s *Slide) Background() (*node.Fill, error) {
	if s.err != nil {
		return nil, s.err
	}
	bg := s.xml.CSld.Bg
	if bg == nil {
		return nil, nil
	}
	if bg.BgPr != nil {
		return s.fill(bg.BgPr), nil
	}
	if bg.BgRef != nil {
		fill := &node.Fill{Type: "reference"}
		fill.Color, fill.Alpha = bg.BgRef.color()
		return fill, nil
	}
	return nil, nil
}

// Transition returns the slide transition, or nil when none is set.
func (s *Slide) Transition() (*node.Transition, error) {
	if s.err != nil {
		return nil, s.err
	}
	tx := s.xml.Transition
	if tx == nil {
		tx = s.xml.AltTransition
	}
	if tx == nil {
		return nil, nil
	}

	t := &node.Transition{
		Type:           "none",
		Speed:          tx.Spd,
		AdvanceOnClick: tx.AdvClick != "0" && tx.AdvClick != "false",
	}
	for _, e := range tx.Effects {
		switch e.XMLName.Local {
		case "sndAc", "extLst":
			continue
		}
		t.Type = e.XMLName.Local
		break
	}
	if tx.Dur != "" {
		ms, err := strconv.Atoi(tx.Dur)
		if err != nil {
			return nil, fmt.Errorf("transition duration %q: %w", tx.Dur, err)
		}
		t.Duration = time.Duration(ms) * time.Millisecond
	}
	if tx.AdvTm != "" {
		ms, err := strconv.Atoi(tx.AdvTm)
		if err != nil {
			return nil, fmt.Errorf("transition advance time %q: %w", tx.AdvTm, err)
		}
		t.AdvanceAfter = time.Duration(ms) * time.Millisecond
	}
	return t, nil
}

// Animations returns the preset effects of the slide timing tree in
// document order.
func (s *Slide) Animations() ([]node.Animation, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.xml.Timing == nil {
		return nil, nil
	}
	return parseTiming(s.xml.Timing.Raw)
}

// parseTiming walks a p:timing tree and emits one animation per common
// time node that carries a preset class.
func parseTiming(raw string) ([]node.Animation, error) {
	d := xml.NewDecoder(strings.NewReader(raw))
	d.Strict = false

	var (
		out      []node.Animation
		current  *node.Animation
		depth    int
		curDepth int
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("parsing timing: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			switch el.Name.Local {
			case "cTn":
				if current != nil {
					continue
				}
				class := attr(el, "presetClass")
				if class == "" {
					continue
				}
				current = &node.Animation{
					Class:    class,
					PresetID: atoiDefault(attr(el, "presetID"), 0),
					Duration: msDuration(attr(el, "dur")),
					Trigger:  attr(el, "nodeType"),
				}
				curDepth = depth
			case "cond":
				if current != nil && current.Delay == 0 {
					current.Delay = msDuration(attr(el, "delay"))
				}
			case "spTgt":
				if current != nil && current.ShapeID == 0 {
					current.ShapeID = atoiDefault(attr(el, "spid"), 0)
				}
			}
		case xml.EndElement:
			if current != nil && depth == curDepth && el.Name.Local == "cTn" {
				out = append(out, *current)
				current = nil
			}
			depth--
		}
	}
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// msDuration converts a millisecond attribute; "indefinite" and malformed
// values yield zero.
func msDuration(s string) time.Duration {
	return time.Duration(atoiDefault(s, 0)) * time.Millisecond
}

// Comments returns the legacy reviewer comments of the slide.
func (s *Slide) Comments() ([]node.Comment, error) {
	rel := s.relByType(relComments)
	if rel == nil {
		return nil, nil
	}
	var list commentListXML
	if err := s.reader.unmarshalPart(resolveTarget(s.path, rel.Target), &list); err != nil {
		return nil, err
	}

	out := make([]node.Comment, 0, len(list.Cm))
	for _, cm := range list.Cm {
		c := node.Comment{
			Text:    cm.Text,
			Created: parseW3CDate(cm.Dt),
			X:       cm.Pos.X,
			Y:       cm.Pos.Y,
		}
		if a, ok := s.reader.authors[cm.AuthorID]; ok {
			c.Author = a.Name
			c.Initials = a.Initials
		}
		out = append(out, c)
	}
	return out, nil
}

// relByType returns the first relationship of the given type.
func (s *Slide) relByType(relType string) *relationshipXML {
	for i := range s.rels.Relationship {
		if s.rels.Relationship[i].Type == relType {
			return &s.rels.Relationship[i]
		}
	}
	return nil
}

// relByID returns the relationship with the given id.
func (s *Slide) relByID(id string) *relationshipXML {
	if id == "" {
		return nil
	}
	for i := range s.rels.Relationship {
		if s.rels.Relationship[i].ID == id {
			return &s.rels.Relationship[i]
		}
	}
	return nil
}

// target resolves a relationship id to a part name (or external URL).
func (s *Slide) target(id string) (string, bool, error) {
	rel := s.relByID(id)
	if rel == nil {
		return "", false, fmt.Errorf("relationship %q not found in %s", id, s.path)
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return rel.Target, true, nil
	}
	return resolveTarget(s.path, rel.Target), false, nil
}
