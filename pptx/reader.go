package pptx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/tsawler/deckschema/node"
)

// ErrPartNotFound is returned when a package part does not exist.
var ErrPartNotFound = errors.New("part not found")

// Reader provides access to PPTX document content. It implements
// node.Document and stays valid until Close is called.
type Reader struct {
	zipReader    *zip.Reader
	closer       io.Closer
	files        map[string]*zip.File
	contentTypes *contentTypesXML
	presentation *presentationXML
	presRels     *relationshipsXML
	slides       []*Slide
	coreProps    *corePropertiesXML
	appProps     *appPropertiesXML
	authors      map[string]commentAuthorXML
}

var _ node.Document = (*Reader)(nil)

// Open opens a PPTX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// NewReader reads a PPTX package from ra, which holds size bytes.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
		authors:   make(map[string]commentAuthorXML),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	// Validate required files exist
	if err := r.validate(); err != nil {
		return nil, err
	}

	r.parseContentTypes()

	// Parse presentation relationships first
	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	// Parse presentation to get slide order
	if err := r.parsePresentation(); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}

	r.parseCommentAuthors()

	if err := r.parseSlides(); err != nil {
		return nil, fmt.Errorf("parsing slides: %w", err)
	}

	// Parse metadata (optional)
	r.parseCoreProperties()
	r.parseAppProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// validate checks that required PPTX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	for _, name := range required {
		if r.files[name] == nil {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// openPart opens a file of the ZIP archive for streaming.
func (r *Reader) openPart(name string) (*zip.File, io.ReadCloser, error) {
	f := r.files[strings.TrimPrefix(name, "/")]
	if f == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, nil, err
	}
	return f, rc, nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	_, rc, err := r.openPart(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// readPart reads a part of at most limit bytes. A part whose declared size
// is above limit is refused before it is inflated; one that inflates past
// limit is refused after limit+1 bytes.
func (r *Reader) readPart(name string, limit int64) ([]byte, error) {
	f := r.files[strings.TrimPrefix(name, "/")]
	if f != nil && f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", node.ErrTooLarge, name, f.UncompressedSize64, limit)
	}
	_, rc, err := r.openPart(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s inflates past %d bytes", node.ErrTooLarge, name, limit)
	}
	return data, nil
}

// unmarshalPart reads a part and decodes it into v.
func (r *Reader) unmarshalPart(name string, v interface{}) error {
	data, err := r.getFileContent(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (r *Reader) parseContentTypes() {
	ct := &contentTypesXML{}
	if err := r.unmarshalPart("[Content_Types].xml", ct); err == nil {
		r.contentTypes = ct
	}
}

// contentType returns the declared content type of a part.
func (r *Reader) contentType(part string) string {
	if r.contentTypes == nil {
		return ""
	}
	for _, o := range r.contentTypes.Override {
		if strings.TrimPrefix(o.PartName, "/") == part {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(part)), ".")
	for _, d := range r.contentTypes.Default {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// parseRelationships parses the presentation relationships file.
func (r *Reader) parseRelationships() error {
	rels := &relationshipsXML{}
	err := r.unmarshalPart("ppt/_rels/presentation.xml.rels", rels)
	if errors.Is(err, ErrPartNotFound) {
		return nil // Relationships might be optional
	}
	if err != nil {
		return err
	}
	r.presRels = rels
	return nil
}

// parsePresentation parses the main presentation file.
func (r *Reader) parsePresentation() error {
	r.presentation = &presentationXML{}
	return r.unmarshalPart("ppt/presentation.xml", r.presentation)
}

// slidePaths returns slide part names in presentation order. The slide id
// list is authoritative; when it cannot be resolved the slide files are
// ordered by their number.
func (r *Reader) slidePaths() []string {
	if r.presentation.SlideIdList != nil && r.presRels != nil {
		byID := make(map[string]string)
		for _, rel := range r.presRels.Relationship {
			if rel.Type == relSlide {
				byID[rel.ID] = resolveTarget("ppt/presentation.xml", rel.Target)
			}
		}
		paths := make([]string, 0, len(r.presentation.SlideIdList.SlideId))
		for _, id := range r.presentation.SlideIdList.SlideId {
			if p, ok := byID[id.RID]; ok && r.files[p] != nil {
				paths = append(paths, p)
			}
		}
		if len(paths) > 0 {
			return paths
		}
	}

	slideFiles := make([]string, 0)
	for name := range r.files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			slideFiles = append(slideFiles, name)
		}
	}
	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})
	return slideFiles
}

// parseSlides parses all slide files. A slide that fails to parse is kept
// with its error so that slide positions stay stable.
func (r *Reader) parseSlides() error {
	paths := r.slidePaths()
	if len(paths) == 0 {
		return fmt.Errorf("no slides found in presentation")
	}

	r.slides = make([]*Slide, 0, len(paths))
	for i, p := range paths {
		r.slides = append(r.slides, r.parseSlide(p, i))
	}
	return nil
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(path string) int {
	name := strings.TrimPrefix(path, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlide parses a single slide file.
func (r *Reader) parseSlide(slidePath string, index int) *Slide {
	slide := &Slide{
		reader: r,
		index:  index,
		path:   slidePath,
		rels:   r.parsePartRelationships(slidePath),
	}

	var sx slideXML
	if err := r.unmarshalPart(slidePath, &sx); err != nil {
		slide.err = err
		return slide
	}
	slide.xml = &sx
	slide.shapes = slide.buildShapes(&sx.CSld.SpTree)
	slide.notes = r.parseSlideNotes(slide)
	return slide
}

// parsePartRelationships parses the relationships of a part. Missing or
// malformed relationship files yield an empty set.
func (r *Reader) parsePartRelationships(partPath string) *relationshipsXML {
	relsPath := path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")
	rels := &relationshipsXML{}
	if err := r.unmarshalPart(relsPath, rels); err != nil {
		return &relationshipsXML{}
	}
	return rels
}

// resolveTarget resolves a relationship target against the part that owns
// the relationship.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// parseSlideNotes parses speaker notes for a slide.
func (r *Reader) parseSlideNotes(slide *Slide) string {
	rel := slide.relByType(relNotesSlide)
	if rel == nil {
		return ""
	}

	var notes notesSlideXML
	if err := r.unmarshalPart(resolveTarget(slide.path, rel.Target), &notes); err != nil {
		return ""
	}

	var text strings.Builder
	for _, child := range notes.CSld.SpTree.Children {
		sp := child.Sp
		if sp == nil || sp.TxBody == nil {
			continue
		}
		// Skip the slide image placeholder
		if sp.NvSpPr.NvPr.Ph != nil && sp.NvSpPr.NvPr.Ph.Type == "sldImg" {
			continue
		}
		for _, p := range sp.TxBody.P {
			line := strings.TrimSpace(p.text())
			if line == "" {
				continue
			}
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(line)
		}
	}
	return strings.TrimSpace(text.String())
}

// parseCommentAuthors parses the comment author list, if present.
func (r *Reader) parseCommentAuthors() {
	target := "ppt/commentAuthors.xml"
	if r.presRels != nil {
		for _, rel := range r.presRels.Relationship {
			if rel.Type == relCommentAuthors {
				target = resolveTarget("ppt/presentation.xml", rel.Target)
				break
			}
		}
	}
	var list commentAuthorListXML
	if err := r.unmarshalPart(target, &list); err != nil {
		return
	}
	for _, a := range list.CmAuthor {
		r.authors[a.ID] = a
	}
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	props := &corePropertiesXML{}
	if err := r.unmarshalPart("docProps/core.xml", props); err == nil {
		r.coreProps = props
	}
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	props := &appPropertiesXML{}
	if err := r.unmarshalPart("docProps/app.xml", props); err == nil {
		r.appProps = props
	}
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.slides)
}

// Slide returns the slide at the given index (0-indexed).
func (r *Reader) Slide(index int) (*Slide, error) {
	if index < 0 || index >= len(r.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(r.slides)-1)
	}
	return r.slides[index], nil
}

// Slides returns the slides in presentation order.
func (r *Reader) Slides() []node.Slide {
	out := make([]node.Slide, len(r.slides))
	for i, s := range r.slides {
		out[i] = s
	}
	return out
}

// SlideSize returns the slide dimensions. PowerPoint's 4:3 default is
// returned when the presentation does not declare one.
func (r *Reader) SlideSize() node.Size {
	if r.presentation != nil && r.presentation.SlideSz != nil {
		return node.Size{Width: r.presentation.SlideSz.Cx, Height: r.presentation.SlideSz.Cy}
	}
	return node.Size{Width: 9144000, Height: 6858000}
}

// Properties returns document metadata.
func (r *Reader) Properties() (node.Properties, error) {
	props := node.Properties{SlideCount: len(r.slides)}
	if r.coreProps != nil {
		props.Title = r.coreProps.Title
		props.Subject = r.coreProps.Subject
		props.Author = r.coreProps.Creator
		props.Description = r.coreProps.Description
		props.Category = r.coreProps.Category
		props.LastModifiedBy = r.coreProps.LastModBy
		props.Revision = r.coreProps.Revision
		props.Keywords = splitKeywords(r.coreProps.Keywords)
		props.Created = parseW3CDate(r.coreProps.Created)
		props.Modified = parseW3CDate(r.coreProps.Modified)
	}
	if r.appProps != nil {
		props.Application = r.appProps.Application
		props.AppVersion = r.appProps.AppVersion
		props.Company = r.appProps.Company
		props.HiddenSlides = r.appProps.HiddenSlides
		props.NotesCount = r.appProps.Notes
	}
	return props, nil
}

func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(c rune) bool { return c == ',' || c == ';' })
	out := make([]string, 0, len(fields))
	for _, kw := range fields {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func parseW3CDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Assets lists the media parts of the package in name order.
func (r *Reader) Assets() []node.Asset {
	names := make([]string, 0)
	for name := range r.files {
		if strings.HasPrefix(name, "ppt/media/") && !strings.HasSuffix(name, "/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	assets := make([]node.Asset, 0, len(names))
	for _, name := range names {
		name := name
		assets = append(assets, node.Asset{
			Path:        name,
			ContentType: r.contentType(name),
			Size:        int64(r.files[name].UncompressedSize64),
			Open: func() (io.ReadCloser, error) {
				_, rc, err := r.openPart(name)
				return rc, err
			},
		})
	}
	return assets
}
