package extract

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	// Decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// MaxImageBytes caps the size of picture data read into memory. Larger
// images are refused by the engine before they are inflated.
const MaxImageBytes = 32 * 1024 * 1024

// ErrImageTooLarge is returned for picture data above MaxImageBytes.
var ErrImageTooLarge = errors.New("image too large")

var pictureTypes = []node.Type{node.TypePicture}

// PictureExtractor handles pictures. Image bytes are only read when
// Options.ExtractImages is set; failures reading or decoding them are
// recorded without failing the shape.
type PictureExtractor struct{}

func (e *PictureExtractor) Info() Info {
	return Info{Name: "picture", Version: "1.0", Types: pictureTypes, Complexity: Simple}
}

func (e *PictureExtractor) CanHandle(n node.Shape) bool {
	_, ok := n.(node.PictureShape)
	return ok && hasType(n, pictureTypes)
}

func (e *PictureExtractor) Extract(n node.Shape, c *Context) Result {
	return run("picture", n, c, func() (*schema.Shape, error) {
		ps, ok := n.(node.PictureShape)
		if !ok || !hasType(n, pictureTypes) {
			return nil, ErrCannotHandle
		}
		s, err := commonShape(n, schema.ShapeTypePicture)
		if err != nil {
			return nil, err
		}
		pic, err := ps.Picture()
		if err != nil {
			return nil, err
		}

		pp := &schema.PictureProperties{
			RelationshipID: pic.RelID,
			AssetPath:      pic.Target,
			ContentType:    pic.ContentType,
			External:       pic.External,
		}
		if pic.Crop != (node.Crop{}) {
			pp.Crop = &schema.Crop{
				Left:   pic.Crop.Left,
				Top:    pic.Crop.Top,
				Right:  pic.Crop.Right,
				Bottom: pic.Crop.Bottom,
			}
		}
		s.PictureProperties = pp

		if c.Options.ExtractImages && !pic.External {
			data := isolate(c, "picture/data", []byte(nil), func() ([]byte, error) {
				return readImage(ps)
			})
			if data != nil {
				describeImage(pp, data, c)
			}
		}
		return s, nil
	})
}

func readImage(ps node.PictureShape) ([]byte, error) {
	data, err := ps.ImageData(MaxImageBytes)
	if errors.Is(err, node.ErrTooLarge) {
		return nil, fmt.Errorf("%w: %w", ErrImageTooLarge, err)
	}
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(data), MaxImageBytes)
	}
	return data, nil
}

func describeImage(pp *schema.PictureProperties, data []byte, c *Context) {
	pp.ByteSize = len(data)
	pp.Data = base64.StdEncoding.EncodeToString(data)

	// Vector formats such as EMF have no registered decoder.
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		pp.PixelWidth = cfg.Width
		pp.PixelHeight = cfg.Height
		c.Logger.Debug("image decoded", "format", format, "width", cfg.Width, "height", cfg.Height)
	}

	if c.Options.OCRImages && c.OCR != nil {
		pp.OCRText = isolate(c, "picture/ocr", "", func() (string, error) {
			return c.OCR.Recognize(data)
		})
	}
}
