// Package pptx provides PPTX (Office Open XML Presentation) document parsing.
package pptx

import "encoding/xml"

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Relationship types resolved by the reader.
const (
	relSlide          = nsRelationships + "/slide"
	relNotesSlide     = nsRelationships + "/notesSlide"
	relComments       = nsRelationships + "/comments"
	relCommentAuthors = nsRelationships + "/commentAuthors"
	relHyperlink      = nsRelationships + "/hyperlink"
)

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName  xml.Name          `xml:"Types"`
	Default  []contentDefault  `xml:"Default"`
	Override []contentOverride `xml:"Override"`
}

type contentDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
	SlideSz     *slideSzXML     `xml:"sldSz"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type slideSzXML struct {
	Cx int64 `xml:"cx,attr"` // Width in EMUs
	Cy int64 `xml:"cy,attr"` // Height in EMUs
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName    xml.Name       `xml:"sld"`
	Show       string         `xml:"show,attr"`
	CSld       cSldXML        `xml:"cSld"`
	Transition *transitionXML `xml:"transition"`
	// PowerPoint 2010+ writes extended transitions inside
	// mc:AlternateContent with a plain p:transition fallback.
	AltTransition *transitionXML `xml:"AlternateContent>Fallback>transition"`
	Timing        *timingXML     `xml:"timing"`
}

type cSldXML struct {
	Name   string       `xml:"name,attr"`
	Bg     *bgXML       `xml:"bg"`
	SpTree shapeTreeXML `xml:"spTree"`
}

type bgXML struct {
	BgPr  *fillChoiceXML `xml:"bgPr"`
	BgRef *bgRefXML      `xml:"bgRef"`
}

type bgRefXML struct {
	Idx string `xml:"idx,attr"`
	colorChoiceXML
}

type transitionXML struct {
	Spd      string       `xml:"spd,attr"`
	Dur      string       `xml:"dur,attr"`
	AdvClick string       `xml:"advClick,attr"`
	AdvTm    string       `xml:"advTm,attr"`
	Effects  []anyElement `xml:",any"`
}

type anyElement struct {
	XMLName xml.Name
}

type timingXML struct {
	Raw string `xml:",innerxml"`
}

// shapeTreeXML is a p:spTree or p:grpSp. Children keep document order,
// which is the z-order of the slide.
type shapeTreeXML struct {
	NvGrpSpPr nvGrpSpPrXML
	GrpSpPr   spPrXML
	Children  []shapeElementXML
}

// shapeElementXML holds exactly one shape element of a shape tree.
type shapeElementXML struct {
	Sp           *spXML
	Pic          *picXML
	GraphicFrame *graphicFrameXML
	GrpSp        *shapeTreeXML
	CxnSp        *cxnSpXML
}

type alternateContentXML struct {
	Choice   []shapeTreeXML `xml:"Choice"`
	Fallback *shapeTreeXML  `xml:"Fallback"`
}

type nvGrpSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type cNvPrXML struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Descr  string `xml:"descr,attr"`
	Title  string `xml:"title,attr"`
	Hidden string `xml:"hidden,attr"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr   cNvPrXML `xml:"cNvPr"`
	CNvSpPr struct {
		TxBox string `xml:"txBox,attr"`
	} `xml:"cNvSpPr"`
	NvPr nvPrXML `xml:"nvPr"`
}

type nvPrXML struct {
	Ph        *phXML    `xml:"ph"` // Placeholder info
	VideoFile *struct{} `xml:"videoFile"`
	AudioFile *struct{} `xml:"audioFile"`
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, etc.
	Idx  int    `xml:"idx,attr"`
}

// spPrXML holds shape properties. Numeric transform attributes are kept as
// strings so a malformed value only affects the shape that carries it.
type spPrXML struct {
	Xfrm     *xfrmXML `xml:"xfrm"`
	PrstGeom *struct {
		Prst string `xml:"prst,attr"`
	} `xml:"prstGeom"`
	fillChoiceXML
	Ln        *lnXML        `xml:"ln"`
	EffectLst *effectLstXML `xml:"effectLst"`
}

type xfrmXML struct {
	Rot   string  `xml:"rot,attr"`   // 60000ths of a degree
	FlipH string  `xml:"flipH,attr"` // 1 or true
	FlipV string  `xml:"flipV,attr"`
	Off   *offXML `xml:"off"`
	Ext   *extXML `xml:"ext"`
}

type offXML struct {
	X string `xml:"x,attr"` // X position in EMUs
	Y string `xml:"y,attr"` // Y position in EMUs
}

type extXML struct {
	Cx string `xml:"cx,attr"` // Width in EMUs
	Cy string `xml:"cy,attr"` // Height in EMUs
}

// fillChoiceXML is the DrawingML fill choice group.
type fillChoiceXML struct {
	NoFill    *struct{}     `xml:"noFill"`
	SolidFill *solidFillXML `xml:"solidFill"`
	GradFill  *gradFillXML  `xml:"gradFill"`
	BlipFill  *blipFillXML  `xml:"blipFill"`
	PattFill  *pattFillXML  `xml:"pattFill"`
}

// colorChoiceXML is the DrawingML color choice group.
type colorChoiceXML struct {
	SrgbClr   *colorValXML `xml:"srgbClr"`
	SchemeClr *colorValXML `xml:"schemeClr"`
	PrstClr   *colorValXML `xml:"prstClr"`
	SysClr    *colorValXML `xml:"sysClr"`
}

type colorValXML struct {
	Val     string  `xml:"val,attr"`
	LastClr string  `xml:"lastClr,attr"`
	Alpha   *valXML `xml:"alpha"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type solidFillXML struct {
	colorChoiceXML
}

type gradFillXML struct {
	GsLst struct {
		Gs []gradStopXML `xml:"gs"`
	} `xml:"gsLst"`
	Lin *struct {
		Ang string `xml:"ang,attr"`
	} `xml:"lin"`
}

type gradStopXML struct {
	Pos string `xml:"pos,attr"` // thousandths of a percent
	colorChoiceXML
}

type pattFillXML struct {
	Prst  string `xml:"prst,attr"`
	FgClr *struct {
		colorChoiceXML
	} `xml:"fgClr"`
}

type lnXML struct {
	W         string        `xml:"w,attr"`
	NoFill    *struct{}     `xml:"noFill"`
	SolidFill *solidFillXML `xml:"solidFill"`
	PrstDash  *valXML       `xml:"prstDash"`
}

type effectLstXML struct {
	OuterShdw  *shadowXML `xml:"outerShdw"`
	InnerShdw  *shadowXML `xml:"innerShdw"`
	Glow       *glowXML   `xml:"glow"`
	SoftEdge   *radiusXML `xml:"softEdge"`
	Reflection *struct{}  `xml:"reflection"`
	Blur       *radiusXML `xml:"blur"`
}

type shadowXML struct {
	BlurRad string `xml:"blurRad,attr"`
	Dist    string `xml:"dist,attr"`
	colorChoiceXML
}

type glowXML struct {
	Rad string `xml:"rad,attr"`
	colorChoiceXML
}

type radiusXML struct {
	Rad string `xml:"rad,attr"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	BodyPr bodyPrXML      `xml:"bodyPr"`
	P      []paragraphXML `xml:"p"` // Paragraphs
}

type bodyPrXML struct {
	Anchor string `xml:"anchor,attr"` // t, ctr, b (top, center, bottom)
	Vert   string `xml:"vert,attr"`
	Wrap   string `xml:"wrap,attr"`
}

// paragraphXML keeps runs, breaks and fields in document order.
type paragraphXML struct {
	PPr  *pPrXML
	Runs []textRunXML
}

type pPrXML struct {
	Lvl       int           `xml:"lvl,attr"`  // Bullet level (0-8)
	Algn      string        `xml:"algn,attr"` // Alignment: l, ctr, r, just
	BuNone    *struct{}     `xml:"buNone"`
	BuChar    *buCharXML    `xml:"buChar"`
	BuAutoNum *buAutoNumXML `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"` // Bullet character
}

type buAutoNumXML struct {
	Type string `xml:"type,attr"` // arabicPeriod, alphaLcParenR, etc.
}

// textRunXML is an a:r, a:br or a:fld element.
type textRunXML struct {
	RPr   *rPrXML `xml:"rPr"`
	T     string  `xml:"t"`
	Type  string  `xml:"type,attr"` // field type, a:fld only
	Break bool    `xml:"-"`
}

type rPrXML struct {
	Lang   string `xml:"lang,attr"`
	Sz     string `xml:"sz,attr"` // Font size in hundredths of a point
	B      string `xml:"b,attr"`
	I      string `xml:"i,attr"`
	U      string `xml:"u,attr"`
	Strike string `xml:"strike,attr"`
	Latin  *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"latin"`
	SolidFill  *solidFillXML `xml:"solidFill"`
	HlinkClick *struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"hlinkClick"`
}

// picXML represents a picture element.
type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"nvPicPr"`
	BlipFill blipFillXML `xml:"blipFill"`
	SpPr     spPrXML     `xml:"spPr"`
}

type nvPicPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type blipFillXML struct {
	Blip    blipXML `xml:"blip"`
	SrcRect *struct {
		L string `xml:"l,attr"`
		T string `xml:"t,attr"`
		R string `xml:"r,attr"`
		B string `xml:"b,attr"`
	} `xml:"srcRect"`
}

type blipXML struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
	Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`
}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	NvGraphicFramePr nvGraphicFramePrXML `xml:"nvGraphicFramePr"`
	Xfrm             *xfrmXML            `xml:"xfrm"`
	Graphic          graphicXML          `xml:"graphic"`
}

type nvGraphicFramePrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI   string       `xml:"uri,attr"`
	Tbl   *tblXML      `xml:"tbl"`
	Chart *chartRefXML `xml:"chart"`
}

type chartRefXML struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// tblXML represents a table.
type tblXML struct {
	TblPr *struct {
		StyleID string `xml:"tableStyleId"`
	} `xml:"tblPr"`
	TblGrid tblGridXML `xml:"tblGrid"`
	Tr      []trXML    `xml:"tr"` // Table rows
}

type tblGridXML struct {
	GridCol []gridColXML `xml:"gridCol"`
}

type gridColXML struct {
	W int64 `xml:"w,attr"` // Width in EMUs
}

type trXML struct {
	H  int64   `xml:"h,attr"` // Row height in EMUs
	Tc []tcXML `xml:"tc"`     // Table cells
}

type tcXML struct {
	TxBody   *txBodyXML     `xml:"txBody"`
	TcPr     *fillChoiceXML `xml:"tcPr"`
	RowSpan  int            `xml:"rowSpan,attr"`
	GridSpan int            `xml:"gridSpan,attr"`
	VMerge   string         `xml:"vMerge,attr"`
	HMerge   string         `xml:"hMerge,attr"`
}

// cxnSpXML represents a connector.
type cxnSpXML struct {
	NvCxnSpPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvCxnSpPr"`
	SpPr spPrXML `xml:"spPr"`
}

// notesSlideXML represents a ppt/notesSlides/notesSlide*.xml file.
type notesSlideXML struct {
	XMLName xml.Name `xml:"notes"`
	CSld    cSldXML  `xml:"cSld"`
}

// commentListXML represents a ppt/comments/comment*.xml file.
type commentListXML struct {
	XMLName xml.Name     `xml:"cmLst"`
	Cm      []commentXML `xml:"cm"`
}

type commentXML struct {
	AuthorID string `xml:"authorId,attr"`
	Dt       string `xml:"dt,attr"`
	Pos      struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"pos"`
	Text string `xml:"text"`
}

// commentAuthorListXML represents ppt/commentAuthors.xml.
type commentAuthorListXML struct {
	XMLName  xml.Name           `xml:"cmAuthorLst"`
	CmAuthor []commentAuthorXML `xml:"cmAuthor"`
}

type commentAuthorXML struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	Initials string `xml:"initials,attr"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Subject     string   `xml:"subject"`
	Creator     string   `xml:"creator"`
	Keywords    string   `xml:"keywords"`
	Description string   `xml:"description"`
	Category    string   `xml:"category"`
	LastModBy   string   `xml:"lastModifiedBy"`
	Revision    string   `xml:"revision"`
	Created     string   `xml:"created"`
	Modified    string   `xml:"modified"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName      xml.Name `xml:"Properties"`
	Application  string   `xml:"Application"`
	AppVersion   string   `xml:"AppVersion"`
	Company      string   `xml:"Company"`
	Slides       int      `xml:"Slides"`
	Notes        int      `xml:"Notes"`
	HiddenSlides int      `xml:"HiddenSlides"`
}
