// Package format detects presentation file formats.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PPTX indicates a PowerPoint presentation (.pptx).
	PPTX
	// PPTM indicates a macro-enabled presentation (.pptm).
	PPTM
	// PPSX indicates a PowerPoint show (.ppsx).
	PPSX
	// POTX indicates a PowerPoint template (.potx).
	POTX
	// PPT indicates a legacy binary PowerPoint file (.ppt).
	PPT
	// DOCX indicates a Word document. Recognized so callers can report it.
	DOCX
	// XLSX indicates an Excel workbook. Recognized so callers can report it.
	XLSX
	// PDF indicates a PDF document. Recognized so callers can report it.
	PDF
)

// Main part content types of the PresentationML package variants.
const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctMacro        = "application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml"
	ctSlideshow    = "application/vnd.openxmlformats-officedocument.presentationml.slideshow.main+xml"
	ctTemplate     = "application/vnd.openxmlformats-officedocument.presentationml.template.main+xml"
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PPTX:
		return "PPTX"
	case PPTM:
		return "PPTM"
	case PPSX:
		return "PPSX"
	case POTX:
		return "POTX"
	case PPT:
		return "PPT"
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	if f == Unknown {
		return ""
	}
	return "." + strings.ToLower(f.String())
}

// Supported reports whether the format is a PresentationML package that
// the pptx engine can open.
func (f Format) Supported() bool {
	switch f {
	case PPTX, PPTM, PPSX, POTX:
		return true
	}
	return false
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pptx":
		return PPTX
	case ".pptm":
		return PPTM
	case ".ppsx":
		return PPSX
	case ".potx":
		return POTX
	case ".ppt":
		return PPT
	case ".docx":
		return DOCX
	case ".xlsx":
		return XLSX
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

var (
	magicZIP = []byte{0x50, 0x4B, 0x03, 0x04}
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	magicPDF = []byte("%PDF")
)

// DetectFromMagic checks file magic bytes to determine format.
// ZIP archives need their content inspected and report Unknown here; use
// DetectFromReader for them.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return PDF
	case bytes.HasPrefix(data, magicOLE):
		// Compound files also hold .doc and .xls; treat as legacy
		// PowerPoint only as a best guess.
		return PPT
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format. It can tell
// the PresentationML variants apart by their main part content type.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, magicZIP) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects an OOXML package.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name != "[Content_Types].xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Unknown, err
		}
		data, err := io.ReadAll(io.LimitReader(rc, 1<<20))
		rc.Close()
		if err != nil {
			return Unknown, err
		}
		ct := string(data)
		switch {
		case strings.Contains(ct, ctMacro):
			return PPTM, nil
		case strings.Contains(ct, ctSlideshow):
			return PPSX, nil
		case strings.Contains(ct, ctTemplate):
			return POTX, nil
		case strings.Contains(ct, ctPresentation):
			return PPTX, nil
		}
	}

	// Fall back to part name prefixes
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		}
	}

	return Unknown, nil
}
