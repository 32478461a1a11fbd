package pptx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/deckschema/node"
)

// UnmarshalXML decodes a:p keeping runs, line breaks and fields in order.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr":
				p.PPr = &pPrXML{}
				if err := d.DecodeElement(p.PPr, &el); err != nil {
					return err
				}
			case "r", "fld":
				var run textRunXML
				if err := d.DecodeElement(&run, &el); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			case "br":
				run := textRunXML{Break: true}
				if err := d.DecodeElement(&run, &el); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// text returns the plain text of the paragraph. Line breaks become
// newlines.
func (p *paragraphXML) text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(r.T)
	}
	return sb.String()
}

// paragraph converts a decoded paragraph, resolving hyperlinks against the
// slide relationships.
func (s *Slide) paragraph(px *paragraphXML) (node.Paragraph, error) {
	p := node.Paragraph{Runs: make([]node.Run, 0, len(px.Runs))}
	if px.PPr != nil {
		p.Level = px.PPr.Lvl
		p.Alignment = px.PPr.Algn
		switch {
		case px.PPr.BuNone != nil:
			p.Bullet = "none"
		case px.PPr.BuChar != nil:
			p.Bullet = "char"
			p.BulletChar = px.PPr.BuChar.Char
		case px.PPr.BuAutoNum != nil:
			p.Bullet = "number"
			p.BulletChar = px.PPr.BuAutoNum.Type
		}
	}

	for _, rx := range px.Runs {
		if rx.Break {
			p.Runs = append(p.Runs, node.Run{Text: "\n", Break: true})
			continue
		}
		run := node.Run{Text: rx.T, Field: rx.Type}
		if rpr := rx.RPr; rpr != nil {
			run.Bold = isTrue(rpr.B)
			run.Italic = isTrue(rpr.I)
			run.Underline = rpr.U
			if run.Underline == "none" {
				run.Underline = ""
			}
			run.Strike = rpr.Strike
			if run.Strike == "noStrike" {
				run.Strike = ""
			}
			run.Language = rpr.Lang
			if rpr.Sz != "" {
				sz, err := strconv.Atoi(rpr.Sz)
				if err != nil {
					return p, fmt.Errorf("font size %q: %w", rpr.Sz, err)
				}
				run.Size = float64(sz) / 100
			}
			if rpr.Latin != nil {
				run.Font = rpr.Latin.Typeface
			}
			if rpr.SolidFill != nil {
				run.Color, _ = rpr.SolidFill.color()
			}
			if rpr.HlinkClick != nil && rpr.HlinkClick.RID != "" {
				if rel := s.relByID(rpr.HlinkClick.RID); rel != nil {
					run.Hyperlink = rel.Target
				}
			}
		}
		p.Runs = append(p.Runs, run)
	}
	return p, nil
}
