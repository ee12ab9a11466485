// Package render draws transaction preview cards as PNG images.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/shruggr/go-txpreview/internal/icons"
	"github.com/shruggr/go-txpreview/internal/metrics"
	"github.com/shruggr/go-txpreview/internal/telemetry"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	Width  = 1200
	Height = 675

	padTop    = 20.0
	padSide   = 40.0
	padBottom = 40.0
	iconSize  = 100.0

	maxDescriptionLines = 4
)

var (
	white     = color.White
	black     = color.Black
	boxFill   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 38}
	boxStroke = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 51}
	darkStop  = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	greenStop = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
)

// Card is everything drawn on a preview image. Icon and Background are
// optional; a generated chain icon and a gradient are used in their place.
type Card struct {
	ChainID     string
	ChainName   string
	Title       string
	Description string
	From        string
	To          string
	Icon        image.Image
	Background  image.Image
}

type Renderer struct {
	regular *opentype.Font
	bold    *opentype.Font
}

func New() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold}, nil
}

// faces are not safe for concurrent use, so each render builds its own set.
type faceSet struct {
	chain, title, description, label, address, arrow, initials font.Face
}

func (r *Renderer) newFaces() (*faceSet, error) {
	fs := &faceSet{}
	specs := []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&fs.chain, r.bold, 36},
		{&fs.title, r.bold, 52},
		{&fs.description, r.regular, 40},
		{&fs.label, r.regular, 16},
		{&fs.address, r.bold, 20},
		{&fs.arrow, r.bold, 32},
		{&fs.initials, r.regular, 40},
	}
	for _, spec := range specs {
		face, err := r.face(spec.font, spec.size)
		if err != nil {
			fs.Close()
			return nil, err
		}
		*spec.dst = face
	}
	return fs, nil
}

func (fs *faceSet) Close() {
	for _, f := range []font.Face{fs.chain, fs.title, fs.description, fs.label, fs.address, fs.arrow, fs.initials} {
		if f != nil {
			f.Close()
		}
	}
}

func (r *Renderer) face(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render draws card and writes it to w as a Width x Height PNG.
func (r *Renderer) Render(ctx context.Context, w io.Writer, card Card) error {
	_, span := telemetry.Tracer().Start(ctx, "render.card")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}()

	faces, err := r.newFaces()
	if err != nil {
		return err
	}
	defer faces.Close()

	dc := gg.NewContext(Width, Height)
	drawBackground(dc, card.Background)

	// header row
	drawIcon(dc, faces, card, padSide, padTop)
	// the gradient is dark behind the header; supplied backgrounds are light there
	dc.SetFontFace(faces.chain)
	dc.SetColor(black)
	if card.Background == nil {
		dc.SetColor(white)
	}
	dc.DrawStringAnchored(card.ChainName, padSide+iconSize+10+16, padTop+iconSize/2, 0, 0.5)

	y := padTop + iconSize + 40

	dc.SetFontFace(faces.title)
	dc.SetColor(white)
	dc.DrawStringAnchored(fitLine(dc, card.Title, Width-2*padSide), padSide, y, 0, 1)
	y += float64(faces.title.Metrics().Height.Ceil()) + 8

	dc.SetFontFace(faces.description)
	lineHeight := dc.FontHeight() * 1.4
	for _, line := range wrapLines(dc, card.Description, 0.8*(Width-2*padSide), maxDescriptionLines) {
		dc.DrawStringAnchored(line, padSide, y, 0, 1)
		y += lineHeight
	}
	y += 20

	if card.From != "" && card.To != "" && y < Height-padBottom {
		drawFlow(dc, faces, card.From, card.To, padSide, y)
	}

	return dc.EncodePNG(w)
}

func drawBackground(dc *gg.Context, bg image.Image) {
	if bg == nil {
		// 120deg CSS gradient: dark until 60%, then to green
		angle := 120 * math.Pi / 180
		dx, dy := math.Sin(angle), -math.Cos(angle)
		half := (math.Abs(Width*dx) + math.Abs(Height*dy)) / 2
		cx, cy := Width/2.0, Height/2.0

		grad := gg.NewLinearGradient(cx-dx*half, cy-dy*half, cx+dx*half, cy+dy*half)
		grad.AddColorStop(0, darkStop)
		grad.AddColorStop(0.6, darkStop)
		grad.AddColorStop(1, greenStop)
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, Width, Height)
		dc.Fill()
		return
	}

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), bg, coverRect(bg.Bounds(), Width, Height), draw.Src, nil)
	dc.DrawImage(dst, 0, 0)
}

// coverRect crops src to the aspect ratio of w x h around its centre.
func coverRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return src
	}
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := src.Min.X + (sw-cw)/2
		return image.Rect(x0, src.Min.Y, x0+cw, src.Max.Y)
	}
	ch := sw * h / w
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+ch)
}

// containRect fits a w x h image inside a size x size square, centred.
func containRect(w, h int, size float64) (float64, float64, float64, float64) {
	if w == 0 || h == 0 {
		return 0, 0, size, size
	}
	scale := math.Min(size/float64(w), size/float64(h))
	fw, fh := float64(w)*scale, float64(h)*scale
	return (size - fw) / 2, (size - fh) / 2, fw, fh
}

func drawIcon(dc *gg.Context, faces *faceSet, card Card, x, y float64) {
	if card.Icon != nil {
		ox, oy, fw, fh := containRect(card.Icon.Bounds().Dx(), card.Icon.Bounds().Dy(), iconSize)
		scaled := image.NewRGBA(image.Rect(0, 0, int(math.Round(fw)), int(math.Round(fh))))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), card.Icon, card.Icon.Bounds(), draw.Src, nil)
		dc.DrawImage(scaled, int(x+ox), int(y+oy))
		return
	}

	dc.SetColor(icons.RGBA(card.ChainID))
	dc.DrawCircle(x+iconSize/2, y+iconSize/2, iconSize/2)
	dc.Fill()

	dc.SetFontFace(faces.initials)
	dc.SetColor(white)
	dc.DrawStringAnchored(icons.Initials(card.ChainID), x+iconSize/2, y+iconSize/2, 0.5, 0.35)
}

func drawFlow(dc *gg.Context, faces *faceSet, from, to string, x, y float64) {
	x = drawAddressBox(dc, faces, "From", from, x, y)

	dc.SetFontFace(faces.arrow)
	dc.SetColor(white)
	aw, _ := dc.MeasureString("→")
	dc.DrawStringAnchored("→", x+20, y+addressBoxHeight/2, 0, 0.35)

	drawAddressBox(dc, faces, "To", to, x+20+aw+20, y)
}

const (
	addressBoxHeight = 80.0
	addressBoxMinW   = 200.0
)

// drawAddressBox draws one labelled address box and returns its right edge.
func drawAddressBox(dc *gg.Context, faces *faceSet, label, address string, x, y float64) float64 {
	dc.SetFontFace(faces.address)
	tw, _ := dc.MeasureString(address)
	w := math.Max(addressBoxMinW, tw+48)

	dc.DrawRoundedRectangle(x, y, w, addressBoxHeight, 12)
	dc.SetColor(boxFill)
	dc.FillPreserve()
	dc.SetColor(boxStroke)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetColor(white)
	dc.SetFontFace(faces.label)
	dc.DrawStringAnchored(label, x+24, y+16, 0, 1)
	dc.SetFontFace(faces.address)
	dc.DrawStringAnchored(address, x+24, y+16+16+4, 0, 1)

	return x + w
}

// wrapLines word-wraps s to width, splitting words that cannot fit on a line
// and ellipsising the last permitted line.
func wrapLines(dc *gg.Context, s string, width float64, maxLines int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var lines []string
	for _, line := range dc.WordWrap(s, width) {
		lines = append(lines, breakLine(dc, strings.TrimSpace(line), width)...)
	}
	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	lines[maxLines-1] = ellipsise(dc, lines[maxLines-1], width)
	return lines
}

// breakLine splits a line wider than width at rune boundaries.
func breakLine(dc *gg.Context, line string, width float64) []string {
	var out []string
	for {
		if w, _ := dc.MeasureString(line); w <= width {
			return append(out, line)
		}
		cut := len(line)
		for cut > 0 {
			_, size := utf8.DecodeLastRuneInString(line[:cut])
			cut -= size
			if w, _ := dc.MeasureString(line[:cut]); w <= width {
				break
			}
		}
		if cut == 0 {
			_, cut = utf8.DecodeRuneInString(line)
		}
		out = append(out, line[:cut])
		line = strings.TrimLeft(line[cut:], " ")
		if line == "" {
			return out
		}
	}
}

// fitLine returns s unchanged when it fits width, otherwise ellipsised.
func fitLine(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	return ellipsise(dc, s, width)
}

func ellipsise(dc *gg.Context, s string, width float64) string {
	last := strings.TrimSpace(s)
	for last != "" {
		if w, _ := dc.MeasureString(last + "…"); w <= width {
			break
		}
		_, size := utf8.DecodeLastRuneInString(last)
		last = strings.TrimSpace(last[:len(last)-size])
	}
	return last + "…"
}
