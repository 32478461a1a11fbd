package schema

// ShapeType discriminates the payload of a Shape.
type ShapeType string

// Shape types written to the schema. Unknown is the fallback marker used
// for unrecognized shapes and failure placeholders.
const (
	ShapeTypeTextBox ShapeType = "TextBox"
	ShapeTypePicture ShapeType = "Picture"
	ShapeTypeTable   ShapeType = "Table"
	ShapeTypeChart   ShapeType = "Chart"
	ShapeTypeGroup   ShapeType = "Group"
	ShapeTypeUnknown ShapeType = "Unknown"
)

// Shape is a drawable element of a slide. Exactly one type-specific
// payload is set, matching ShapeType; Unknown shapes carry none.
type Shape struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	ShapeType      ShapeType `json:"shapeType"`
	NativeType     string    `json:"nativeType,omitempty"`
	Geometry       Geometry  `json:"geometry"`
	PresetGeometry string    `json:"presetGeometry,omitempty"`
	Description    string    `json:"description,omitempty"`
	Fill           *Fill     `json:"fill,omitempty"`
	Line           *Line     `json:"line,omitempty"`
	Effects        []Effect  `json:"effects,omitempty"`

	TextProperties    *TextProperties    `json:"textProperties,omitempty"`
	PictureProperties *PictureProperties `json:"pictureProperties,omitempty"`
	TableProperties   *TableProperties   `json:"tableProperties,omitempty"`
	ChartProperties   *ChartProperties   `json:"chartProperties,omitempty"`
	GroupProperties   *GroupProperties   `json:"groupProperties,omitempty"`

	// Error holds the failure message when extraction of this shape failed.
	Error string `json:"error,omitempty"`
}

// Geometry is the common placement of every shape. Positions and sizes are
// in EMUs, rotation in degrees.
type Geometry struct {
	X        int64   `json:"x"`
	Y        int64   `json:"y"`
	Width    int64   `json:"width"`
	Height   int64   `json:"height"`
	Rotation float64 `json:"rotation"`
	FlipH    bool    `json:"flipH,omitempty"`
	FlipV    bool    `json:"flipV,omitempty"`
}

// TextProperties is the payload of text-bearing shapes.
type TextProperties struct {
	Text        string      `json:"text"`
	Placeholder string      `json:"placeholder,omitempty"`
	Anchor      string      `json:"anchor,omitempty"`
	Vertical    string      `json:"vertical,omitempty"`
	Wrap        string      `json:"wrap,omitempty"`
	Paragraphs  []Paragraph `json:"paragraphs"`
}

// Paragraph is a paragraph of text.
type Paragraph struct {
	Text       string    `json:"text"`
	Level      int       `json:"level"`
	Alignment  string    `json:"alignment,omitempty"`
	Bullet     string    `json:"bullet,omitempty"`
	BulletChar string    `json:"bulletChar,omitempty"`
	Runs       []TextRun `json:"runs"`
}

// TextRun is a span of text with uniform font formatting.
type TextRun struct {
	Text string `json:"text"`
	Font Font   `json:"font"`
	// Hyperlink is the resolved target of a click action.
	Hyperlink string `json:"hyperlink,omitempty"`
	Field     string `json:"field,omitempty"`
	Language  string `json:"language,omitempty"`
}

// Font is the character formatting of a run.
type Font struct {
	Family    string  `json:"family,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline string  `json:"underline,omitempty"`
	Strike    string  `json:"strike,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// PictureProperties is the payload of picture shapes.
type PictureProperties struct {
	RelationshipID string `json:"relationshipId,omitempty"`
	AssetPath      string `json:"assetPath,omitempty"`
	ContentType    string `json:"contentType,omitempty"`
	External       bool   `json:"external,omitempty"`
	Crop           *Crop  `json:"crop,omitempty"`

	// Set only when image extraction is requested.
	PixelWidth  int    `json:"pixelWidth,omitempty"`
	PixelHeight int    `json:"pixelHeight,omitempty"`
	ByteSize    int    `json:"byteSize,omitempty"`
	Data        string `json:"data,omitempty"` // base64
	OCRText     string `json:"ocrText,omitempty"`
}

// Crop holds source-rectangle insets as fractions of the image.
type Crop struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// TableProperties is the payload of table shapes.
type TableProperties struct {
	RowCount     int        `json:"rowCount"`
	ColumnCount  int        `json:"columnCount"`
	ColumnWidths []int64    `json:"columnWidths"`
	Style        string     `json:"style,omitempty"`
	Rows         []TableRow `json:"rows"`
}

// TableRow is one table row.
type TableRow struct {
	Height int64       `json:"height"`
	Cells  []TableCell `json:"cells"`
}

// TableCell is one table cell.
type TableCell struct {
	Text    string `json:"text"`
	RowSpan int    `json:"rowSpan"`
	ColSpan int    `json:"colSpan"`
	Merged  bool   `json:"merged,omitempty"`
	Fill    *Fill  `json:"fill,omitempty"`
}

// GroupProperties is the payload of group shapes.
type GroupProperties struct {
	Shapes []Shape `json:"shapes"`
}
