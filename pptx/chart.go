package pptx

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/deckschema/node"
)

// chartSpaceXML represents a ppt/charts/chart*.xml part.
type chartSpaceXML struct {
	XMLName xml.Name `xml:"chartSpace"`
	Chart   chartXML `xml:"chart"`
}

type chartXML struct {
	Title            *chartTitleXML `xml:"title"`
	AutoTitleDeleted *boolValXML    `xml:"autoTitleDeleted"`
	PlotArea         plotAreaXML    `xml:"plotArea"`
	Legend           *legendXML     `xml:"legend"`
}

type chartTitleXML struct {
	Tx *struct {
		Rich *struct {
			P []paragraphXML `xml:"p"`
		} `xml:"rich"`
		StrRef *strRefXML `xml:"strRef"`
	} `xml:"tx"`
}

func (t *chartTitleXML) text() string {
	if t == nil || t.Tx == nil {
		return ""
	}
	if t.Tx.Rich != nil {
		lines := make([]string, 0, len(t.Tx.Rich.P))
		for i := range t.Tx.Rich.P {
			lines = append(lines, t.Tx.Rich.P[i].text())
		}
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	if t.Tx.StrRef != nil {
		return t.Tx.StrRef.first()
	}
	return ""
}

// boolValXML is a CT_Boolean. A missing val attribute means true.
type boolValXML struct {
	Val string `xml:"val,attr"`
}

// on reports the element value, or def when the element is absent.
func (b *boolValXML) on(def bool) bool {
	if b == nil {
		return def
	}
	return b.Val == "" || isTrue(b.Val)
}

type legendXML struct {
	LegendPos *valXML `xml:"legendPos"`
}

// plotAreaXML keeps chart groups and axes in document order.
type plotAreaXML struct {
	Layout *layoutXML
	Groups []plotGroupXML
	Axes   []axisXML
	DTable bool
}

type layoutXML struct {
	ManualLayout *struct {
		X *valXML `xml:"x"`
		Y *valXML `xml:"y"`
		W *valXML `xml:"w"`
		H *valXML `xml:"h"`
	} `xml:"manualLayout"`
}

// UnmarshalXML dispatches plot area children by local name.
func (pa *plotAreaXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			switch {
			case name == "layout":
				pa.Layout = &layoutXML{}
				if err := d.DecodeElement(pa.Layout, &el); err != nil {
					return err
				}
			case name == "dTable":
				pa.DTable = true
				if err := d.Skip(); err != nil {
					return err
				}
			case strings.HasSuffix(name, "Chart"):
				g := plotGroupXML{Element: name}
				if err := d.DecodeElement(&g, &el); err != nil {
					return err
				}
				pa.Groups = append(pa.Groups, g)
			case name == "catAx" || name == "valAx" || name == "dateAx" || name == "serAx":
				a := axisXML{Kind: name}
				if err := d.DecodeElement(&a, &el); err != nil {
					return err
				}
				pa.Axes = append(pa.Axes, a)
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

type plotGroupXML struct {
	Element      string      `xml:"-"`
	BarDir       *valXML     `xml:"barDir"`
	Grouping     *valXML     `xml:"grouping"`
	ScatterStyle *valXML     `xml:"scatterStyle"`
	RadarStyle   *valXML     `xml:"radarStyle"`
	OfPieType    *valXML     `xml:"ofPieType"`
	VaryColors   *boolValXML `xml:"varyColors"`
	Ser          []seriesXML `xml:"ser"`
}

type seriesXML struct {
	Idx   valXML         `xml:"idx"`
	Order valXML         `xml:"order"`
	Tx    *seriesTextXML `xml:"tx"`
	SpPr  *spPrXML       `xml:"spPr"`
	Cat   *dataSourceXML `xml:"cat"`
	Val   *dataSourceXML `xml:"val"`
	XVal  *dataSourceXML `xml:"xVal"`
	YVal  *dataSourceXML `xml:"yVal"`
}

type seriesTextXML struct {
	StrRef *strRefXML `xml:"strRef"`
	V      string     `xml:"v"`
}

// dataSourceXML is a category or value source: a cached reference or a
// literal.
type dataSourceXML struct {
	NumRef         *numRefXML `xml:"numRef"`
	StrRef         *strRefXML `xml:"strRef"`
	NumLit         *cacheXML  `xml:"numLit"`
	StrLit         *cacheXML  `xml:"strLit"`
	MultiLvlStrRef *struct {
		F     string `xml:"f"`
		Cache *struct {
			PtCount *valXML    `xml:"ptCount"`
			Lvl     []cacheXML `xml:"lvl"`
		} `xml:"multiLvlStrCache"`
	} `xml:"multiLvlStrRef"`
}

type numRefXML struct {
	F     string    `xml:"f"`
	Cache *cacheXML `xml:"numCache"`
}

type strRefXML struct {
	F     string    `xml:"f"`
	Cache *cacheXML `xml:"strCache"`
}

func (r *strRefXML) first() string {
	if r.Cache == nil || len(r.Cache.Pt) == 0 {
		return ""
	}
	return r.Cache.Pt[0].V
}

type cacheXML struct {
	FormatCode string  `xml:"formatCode"`
	PtCount    *valXML `xml:"ptCount"`
	Pt         []ptXML `xml:"pt"`
}

type ptXML struct {
	Idx string `xml:"idx,attr"`
	V   string `xml:"v"`
}

type axisXML struct {
	Kind    string `xml:"-"`
	AxID    valXML `xml:"axId"`
	Scaling struct {
		Orientation *valXML `xml:"orientation"`
		Min         *valXML `xml:"min"`
		Max         *valXML `xml:"max"`
	} `xml:"scaling"`
	Delete         *boolValXML    `xml:"delete"`
	AxPos          *valXML        `xml:"axPos"`
	MajorGridlines *struct{}      `xml:"majorGridlines"`
	MinorGridlines *struct{}      `xml:"minorGridlines"`
	Title          *chartTitleXML `xml:"title"`
	NumFmt         *struct {
		FormatCode string `xml:"formatCode,attr"`
	} `xml:"numFmt"`
	MajorTickMark *valXML `xml:"majorTickMark"`
	MinorTickMark *valXML `xml:"minorTickMark"`
	TickLblPos    *valXML `xml:"tickLblPos"`
	CrossAx       *valXML `xml:"crossAx"`
	MajorUnit     *valXML `xml:"majorUnit"`
	MinorUnit     *valXML `xml:"minorUnit"`
}

// chartData implements node.ChartData over a decoded chart part.
type chartData struct {
	slide *Slide
	space *chartSpaceXML
}

var _ node.ChartData = (*chartData)(nil)

func (c *chartData) PlotGroups() ([]node.PlotGroup, error) {
	groups := c.space.Chart.PlotArea.Groups
	out := make([]node.PlotGroup, 0, len(groups))
	for _, g := range groups {
		pg := node.PlotGroup{
			Element:    g.Element,
			Direction:  val(g.BarDir),
			Grouping:   val(g.Grouping),
			VaryColors: g.VaryColors.on(false),
		}
		switch {
		case g.ScatterStyle != nil:
			pg.Style = g.ScatterStyle.Val
		case g.RadarStyle != nil:
			pg.Style = g.RadarStyle.Val
		case g.OfPieType != nil:
			pg.Style = g.OfPieType.Val
		}
		out = append(out, pg)
	}
	return out, nil
}

// Title returns the chart title. A chart with a single series and no
// explicit title shows the series name unless the auto title is deleted.
func (c *chartData) Title() string {
	ch := c.space.Chart
	if t := ch.Title.text(); t != "" {
		return t
	}
	if ch.Title != nil && !ch.AutoTitleDeleted.on(false) {
		if groups := ch.PlotArea.Groups; len(groups) == 1 && len(groups[0].Ser) == 1 {
			return seriesName(&groups[0].Ser[0])
		}
	}
	return ""
}

func (c *chartData) HasLegend() bool { return c.space.Chart.Legend != nil }

func (c *chartData) LegendPosition() string {
	if c.space.Chart.Legend == nil {
		return ""
	}
	if pos := val(c.space.Chart.Legend.LegendPos); pos != "" {
		return pos
	}
	return "r"
}

func (c *chartData) HasDataTable() bool { return c.space.Chart.PlotArea.DTable }

// Categories returns the category labels of the first series that has
// any, ordered by point index. Gaps in the cache are empty strings.
func (c *chartData) Categories() ([]string, error) {
	for _, g := range c.space.Chart.PlotArea.Groups {
		for i := range g.Ser {
			ser := &g.Ser[i]
			src := ser.Cat
			if src == nil {
				src = ser.XVal
			}
			if src == nil {
				continue
			}
			count, points, err := src.points()
			if err != nil {
				return nil, fmt.Errorf("series %s categories: %w", ser.Idx.Val, err)
			}
			if count == 0 && len(points) == 0 {
				continue
			}
			if n := maxIndex(points) + 1; n > count {
				count = n
			}
			labels := make([]string, count)
			for _, p := range points {
				labels[p.Index] = p.Value
			}
			return labels, nil
		}
	}
	return []string{}, nil
}

// Series returns the series of every plot group in document order.
func (c *chartData) Series() ([]node.Series, error) {
	var out []node.Series
	for gi, g := range c.space.Chart.PlotArea.Groups {
		for i := range g.Ser {
			ser := &g.Ser[i]
			s := node.Series{
				Index: atoiDefault(ser.Idx.Val, len(out)),
				Order: atoiDefault(ser.Order.Val, len(out)),
				Group: gi,
				Name:  seriesName(ser),
			}
			if ser.Tx != nil && ser.Tx.StrRef != nil {
				s.NameRef = ser.Tx.StrRef.F
			}

			src := ser.Val
			if src == nil {
				src = ser.YVal
			}
			if src != nil {
				// A bad declared count or point leaves the series with
				// the points that could be read.
				count, points, err := src.points()
				if err == nil {
					s.PointCount = count
				}
				s.Points = points
				s.ValuesRef = src.ref()
				s.FormatCode = src.formatCode()
			}
			if ser.XVal != nil {
				_, xs, _ := ser.XVal.points()
				s.XPoints = xs
			}
			if ser.SpPr != nil {
				s.Fill = c.slide.fill(&ser.SpPr.fillChoiceXML)
				if ser.SpPr.Ln != nil {
					if line, err := lineOf(ser.SpPr.Ln); err == nil {
						s.Line = line
					}
				}
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *chartData) Axes() ([]node.Axis, error) {
	axes := c.space.Chart.PlotArea.Axes
	out := make([]node.Axis, 0, len(axes))
	for _, a := range axes {
		id, err := strconv.Atoi(a.AxID.Val)
		if err != nil {
			return nil, fmt.Errorf("%s id %q: %w", a.Kind, a.AxID.Val, err)
		}
		ax := node.Axis{
			ID:                id,
			Kind:              a.Kind,
			Position:          val(a.AxPos),
			Orientation:       val(a.Scaling.Orientation),
			Min:               val(a.Scaling.Min),
			Max:               val(a.Scaling.Max),
			MajorUnit:         val(a.MajorUnit),
			MinorUnit:         val(a.MinorUnit),
			Deleted:           a.Delete.on(false),
			MajorTickMark:     val(a.MajorTickMark),
			MinorTickMark:     val(a.MinorTickMark),
			TickLabelPosition: val(a.TickLblPos),
			MajorGridlines:    a.MajorGridlines != nil,
			MinorGridlines:    a.MinorGridlines != nil,
			CrossAxisID:       atoiDefault(val(a.CrossAx), 0),
			Title:             a.Title.text(),
		}
		if a.NumFmt != nil {
			ax.NumberFormat = a.NumFmt.FormatCode
		}
		out = append(out, ax)
	}
	return out, nil
}

// PlotArea returns the inner plot rectangle of a manual layout.
func (c *chartData) PlotArea() (*node.Rect, error) {
	l := c.space.Chart.PlotArea.Layout
	if l == nil || l.ManualLayout == nil {
		return nil, nil
	}
	ml := l.ManualLayout
	var r node.Rect
	for _, f := range []struct {
		v   *valXML
		dst *float64
	}{{ml.X, &r.X}, {ml.Y, &r.Y}, {ml.W, &r.Width}, {ml.H, &r.Height}} {
		if f.v == nil {
			continue
		}
		n, err := strconv.ParseFloat(f.v.Val, 64)
		if err != nil {
			return nil, fmt.Errorf("plot area layout %q: %w", f.v.Val, err)
		}
		*f.dst = n
	}
	return &r, nil
}

func seriesName(ser *seriesXML) string {
	if ser.Tx == nil {
		return ""
	}
	if ser.Tx.StrRef != nil {
		return ser.Tx.StrRef.first()
	}
	return ser.Tx.V
}

// cache returns the point cache of the source, whichever form it takes.
// Multi-level categories use their innermost level.
func (ds *dataSourceXML) cache() *cacheXML {
	switch {
	case ds.NumRef != nil:
		return ds.NumRef.Cache
	case ds.StrRef != nil:
		return ds.StrRef.Cache
	case ds.NumLit != nil:
		return ds.NumLit
	case ds.StrLit != nil:
		return ds.StrLit
	case ds.MultiLvlStrRef != nil && ds.MultiLvlStrRef.Cache != nil:
		c := ds.MultiLvlStrRef.Cache
		if len(c.Lvl) == 0 {
			return nil
		}
		lvl := c.Lvl[0]
		if lvl.PtCount == nil {
			lvl.PtCount = c.PtCount
		}
		return &lvl
	}
	return nil
}

func (ds *dataSourceXML) ref() string {
	switch {
	case ds.NumRef != nil:
		return ds.NumRef.F
	case ds.StrRef != nil:
		return ds.StrRef.F
	case ds.MultiLvlStrRef != nil:
		return ds.MultiLvlStrRef.F
	}
	return ""
}

func (ds *dataSourceXML) formatCode() string {
	if c := ds.cache(); c != nil {
		return c.FormatCode
	}
	return ""
}

// points returns the declared point count and the cached points sorted by
// index. Points whose index is not an integer in [0, MaxChartPoints) are
// skipped. A point count that is not a number or is above MaxChartPoints
// is an error; the readable points are still returned with it.
func (ds *dataSourceXML) points() (count int, pts []node.Point, err error) {
	c := ds.cache()
	if c == nil {
		return 0, nil, nil
	}
	pts = make([]node.Point, 0, len(c.Pt))
	for _, pt := range c.Pt {
		idx, perr := strconv.Atoi(strings.TrimSpace(pt.Idx))
		if perr != nil || idx < 0 || idx >= node.MaxChartPoints {
			continue
		}
		pts = append(pts, node.Point{Index: idx, Value: pt.V})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Index < pts[j].Index })

	if c.PtCount != nil {
		n, perr := strconv.Atoi(strings.TrimSpace(c.PtCount.Val))
		if perr != nil || n < 0 || n > node.MaxChartPoints {
			return 0, pts, fmt.Errorf("point count %q is not a count up to %d", c.PtCount.Val, node.MaxChartPoints)
		}
		count = n
	}
	return count, pts, nil
}

func maxIndex(pts []node.Point) int {
	m := -1
	for _, p := range pts {
		if p.Index > m {
			m = p.Index
		}
	}
	return m
}

func val(v *valXML) string {
	if v == nil {
		return ""
	}
	return v.Val
}
