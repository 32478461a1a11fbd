// Package schema defines the Universal Schema: the versioned,
// JSON-serializable representation of a presentation produced by the
// extraction pipeline.
//
// The schema never holds references into the document engine; every value
// is plain data and round-trips through encoding/json.
package schema

import "time"

// Version is the schema version written by this package.
const Version = "1.0.0"

// Schema is the root of an extracted presentation.
type Schema struct {
	Version            string              `json:"version"`
	Source             string              `json:"source,omitempty"`
	DocumentProperties *DocumentProperties `json:"documentProperties,omitempty"`
	SlideSize          Size                `json:"slideSize"`
	Slides             []Slide             `json:"slides"`
	Assets             []Asset             `json:"assets,omitempty"`
}

// New returns an empty schema stamped with the current version.
func New() *Schema {
	return &Schema{
		Version: Version,
		Slides:  make([]Slide, 0),
	}
}

// DocumentProperties is document-level metadata.
type DocumentProperties struct {
	Title          string     `json:"title,omitempty"`
	Subject        string     `json:"subject,omitempty"`
	Author         string     `json:"author,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category,omitempty"`
	LastModifiedBy string     `json:"lastModifiedBy,omitempty"`
	Revision       string     `json:"revision,omitempty"`
	Created        *time.Time `json:"created,omitempty"`
	Modified       *time.Time `json:"modified,omitempty"`
	Application    string     `json:"application,omitempty"`
	AppVersion     string     `json:"appVersion,omitempty"`
	Company        string     `json:"company,omitempty"`
	SlideCount     int        `json:"slideCount"`
	HiddenSlides   int        `json:"hiddenSlides,omitempty"`
	NotesCount     int        `json:"notesCount,omitempty"`
}

// Size is a width and height in EMUs.
type Size struct {
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// Asset is an embedded media part listed when assets are requested.
type Asset struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
	// Digest is the hex BLAKE2b-256 of the part content.
	Digest string `json:"digest,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Slide is one slide in presentation order.
type Slide struct {
	Index      int         `json:"index"`
	Name       string      `json:"name"`
	Hidden     bool        `json:"hidden"`
	Background *Fill       `json:"background,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
	Shapes     []Shape     `json:"shapes"`
	Notes      string      `json:"notes,omitempty"`
	Animations []Animation `json:"animations,omitempty"`
	Comments   []Comment   `json:"comments,omitempty"`
	// Error is set when slide-level attributes or the shape list could not
	// be read.
	Error string `json:"error,omitempty"`
}

// Transition is a slide transition.
type Transition struct {
	Type           string `json:"type"`
	Speed          string `json:"speed,omitempty"`
	DurationMs     int64  `json:"durationMs,omitempty"`
	AdvanceOnClick bool   `json:"advanceOnClick"`
	AdvanceAfterMs int64  `json:"advanceAfterMs,omitempty"`
}

// Animation is a timed effect targeting a shape.
type Animation struct {
	ShapeID    int    `json:"shapeId"`
	Class      string `json:"class"`
	PresetID   int    `json:"presetId,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
	DelayMs    int64  `json:"delayMs,omitempty"`
	Trigger    string `json:"trigger,omitempty"`
}

// Comment is a reviewer comment.
type Comment struct {
	Author   string     `json:"author,omitempty"`
	Initials string     `json:"initials,omitempty"`
	Text     string     `json:"text"`
	Created  *time.Time `json:"created,omitempty"`
	X        int64      `json:"x"`
	Y        int64      `json:"y"`
}

// Fill describes how an area is painted.
type Fill struct {
	Type   string         `json:"type"`
	Color  string         `json:"color,omitempty"`
	Alpha  float64        `json:"alpha,omitempty"`
	Stops  []GradientStop `json:"stops,omitempty"`
	Angle  float64        `json:"angle,omitempty"`
	Target string         `json:"target,omitempty"`
}

// GradientStop is one gradient stop.
type GradientStop struct {
	Position float64 `json:"position"`
	Color    string  `json:"color"`
}

// Line describes a shape outline.
type Line struct {
	Width int64  `json:"width,omitempty"`
	Color string `json:"color,omitempty"`
	Dash  string `json:"dash,omitempty"`
	None  bool   `json:"none,omitempty"`
}

// Effect is a visual effect on a shape.
type Effect struct {
	Type     string `json:"type"`
	Color    string `json:"color,omitempty"`
	Radius   int64  `json:"radius,omitempty"`
	Distance int64  `json:"distance,omitempty"`
}
