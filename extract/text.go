package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

var textTypes = []node.Type{node.TypeTextBox, node.TypeAutoShape, node.TypePlaceholder}

// TextExtractor handles text boxes, auto shapes and placeholders. All three
// are written as TextBox shapes; the native kind stays in NativeType.
type TextExtractor struct{}

func (e *TextExtractor) Info() Info {
	return Info{Name: "text", Version: "1.0", Types: textTypes, Complexity: Simple}
}

func (e *TextExtractor) CanHandle(n node.Shape) bool {
	_, ok := n.(node.TextShape)
	return ok && hasType(n, textTypes)
}

func (e *TextExtractor) Extract(n node.Shape, c *Context) Result {
	return run("text", n, c, func() (*schema.Shape, error) {
		ts, ok := n.(node.TextShape)
		if !ok || !hasType(n, textTypes) {
			return nil, ErrCannotHandle
		}
		s, err := commonShape(n, schema.ShapeTypeTextBox)
		if err != nil {
			return nil, err
		}
		tf, err := ts.TextFrame()
		if err != nil {
			return nil, err
		}
		s.TextProperties = textProperties(tf)
		return s, nil
	})
}

func textProperties(tf *node.TextFrame) *schema.TextProperties {
	tp := &schema.TextProperties{Paragraphs: make([]schema.Paragraph, 0)}
	if tf == nil {
		return tp
	}
	tp.Placeholder = tf.Placeholder
	tp.Anchor = tf.Anchor
	tp.Vertical = tf.Vertical
	tp.Wrap = tf.Wrap

	lines := make([]string, 0, len(tf.Paragraphs))
	for _, p := range tf.Paragraphs {
		para := paragraphOf(p)
		tp.Paragraphs = append(tp.Paragraphs, para)
		lines = append(lines, para.Text)
	}
	tp.Text = strings.Join(lines, "\n")
	return tp
}

func paragraphOf(p node.Paragraph) schema.Paragraph {
	out := schema.Paragraph{
		Level:      p.Level,
		Alignment:  p.Alignment,
		Bullet:     p.Bullet,
		BulletChar: p.BulletChar,
		Runs:       make([]schema.TextRun, 0, len(p.Runs)),
	}

	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			sb.WriteByte('\n')
			out.Runs = append(out.Runs, schema.TextRun{Text: "\n"})
			continue
		}
		text := norm.NFC.String(r.Text)
		sb.WriteString(text)
		out.Runs = append(out.Runs, schema.TextRun{
			Text: text,
			Font: schema.Font{
				Family:    r.Font,
				Size:      r.Size,
				Bold:      r.Bold,
				Italic:    r.Italic,
				Underline: r.Underline,
				Strike:    r.Strike,
				Color:     r.Color,
			},
			Hyperlink: r.Hyperlink,
			Field:     r.Field,
			Language:  r.Language,
		})
	}
	out.Text = sb.String()
	return out
}
