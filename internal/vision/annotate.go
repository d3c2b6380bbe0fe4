package vision

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/awside/symtrain-assistant/internal/types"
)

// DefaultFontPath is the TrueType font used for labels when present
const DefaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"

// DefaultFontSize is the label size in points
const DefaultFontSize = 14

// Rendering geometry
const (
	highlightMargin = 5
	borderWidth     = 3
	labelOffset     = 25
	jpegQuality     = 90
)

var (
	highlightFill   = color.NRGBA{R: 255, G: 255, A: 80}
	borderColor     = color.NRGBA{R: 255, A: 255}
	labelBackground = color.NRGBA{R: 255, A: 200}
	labelColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotator draws hotspot highlights onto screenshots. The zero value uses
// the built-in fixed font.
type Annotator struct {
	FontPath string
	FontSize float64
	Logger   *zap.Logger

	once sync.Once
	font *opentype.Font
}

// NewAnnotator returns an annotator using the default label font
func NewAnnotator(logger *zap.Logger) *Annotator {
	return &Annotator{
		FontPath: DefaultFontPath,
		FontSize: DefaultFontSize,
		Logger:   logger,
	}
}

// Annotate decodes the image at imagePath and returns a new image with the
// hotspot highlighted and labelled. The source file is not modified.
// Coordinates are normalized against the decoded image's real size.
func (a *Annotator) Annotate(imagePath string, record types.HotspotRecord) (*image.RGBA, error) {
	src, err := decodeImage(imagePath)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	hotspot := Normalize(record, bounds.Size())

	base := image.NewRGBA(bounds)
	draw.Draw(base, bounds, src, bounds.Min, draw.Src)

	overlay := image.NewNRGBA(bounds)
	box := image.Rect(
		hotspot.Coordinates.X, hotspot.Coordinates.Y,
		hotspot.Coordinates.X+hotspot.Coordinates.Width, hotspot.Coordinates.Y+hotspot.Coordinates.Height,
	).Add(bounds.Min)

	drawHighlight(overlay, box.Inset(-highlightMargin))
	if hotspot.Text != "" {
		a.drawLabel(overlay, box.Min.Add(image.Pt(0, -labelOffset)), hotspot.Text)
	}

	draw.Draw(base, bounds, overlay, bounds.Min, draw.Over)
	return base, nil
}

// AnnotateToFile annotates imagePath and writes the result to outputPath
func (a *Annotator) AnnotateToFile(imagePath string, record types.HotspotRecord, outputPath string) (*image.RGBA, error) {
	img, err := a.Annotate(imagePath, record)
	if err != nil {
		return nil, err
	}
	if err := SaveImage(img, outputPath); err != nil {
		return nil, err
	}
	return img, nil
}

// SaveImage encodes img by the extension of path: JPEG for .jpg and .jpeg,
// PNG otherwise. Parent directories are created.
func SaveImage(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &AnnotateError{Message: "failed to create output directory", Cause: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &AnnotateError{Message: "failed to create output file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return &AnnotateError{Message: "failed to encode image", Cause: err}
	}
	return nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AnnotateError{Message: "failed to open image", Cause: err}
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &AnnotateError{Message: "failed to decode image " + path, Cause: err}
	}
	return img, nil
}

// drawHighlight fills r and then draws its border so the fill never covers it
func drawHighlight(dst draw.Image, r image.Rectangle) {
	draw.Draw(dst, r, image.NewUniform(highlightFill), image.Point{}, draw.Src)

	border := image.NewUniform(borderColor)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+borderWidth),
		image.Rect(r.Min.X, r.Max.Y-borderWidth, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+borderWidth, r.Max.Y),
		image.Rect(r.Max.X-borderWidth, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(dst, edge.Intersect(r), border, image.Point{}, draw.Src)
	}
}

// drawLabel renders text on a filled background with its top-left corner at the given point
func (a *Annotator) drawLabel(dst draw.Image, at image.Point, text string) {
	face := a.face()
	defer func() { _ = face.Close() }()

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(at.X, at.Y).Add(fixed.Point26_6{Y: face.Metrics().Ascent}),
	}

	textBounds, _ := drawer.BoundString(text)
	background := image.Rect(
		textBounds.Min.X.Floor(), textBounds.Min.Y.Floor(),
		textBounds.Max.X.Ceil(), textBounds.Max.Y.Ceil(),
	)
	draw.Draw(dst, background, image.NewUniform(labelBackground), image.Point{}, draw.Src)
	drawer.DrawString(text)
}

// face returns a new face for the configured font, or the built-in fixed
// face when the font cannot be loaded
func (a *Annotator) face() font.Face {
	a.once.Do(a.loadFont)

	if a.font != nil {
		size := a.FontSize
		if size <= 0 {
			size = DefaultFontSize
		}
		face, err := opentype.NewFace(a.font, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			return face
		}
		a.logger().Warn("failed to create label font face", zap.Error(err))
	}
	return basicfont.Face7x13
}

func (a *Annotator) loadFont() {
	if a.FontPath == "" {
		return
	}
	data, err := os.ReadFile(a.FontPath)
	if err != nil {
		a.logger().Debug("label font unavailable, using fixed font",
			zap.String("path", a.FontPath), zap.Error(err))
		return
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		a.logger().Warn("failed to parse label font, using fixed font",
			zap.String("path", a.FontPath), zap.Error(err))
		return
	}
	a.font = parsed
}

func (a *Annotator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
