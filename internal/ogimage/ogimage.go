// Package ogimage draws the share preview images used in og:image and
// twitter:image. Text is drawn with a bitmap font on a small canvas and the
// canvas is scaled up to the preview size.
package ogimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/singleflight"
)

const (
	Width  = 1200
	Height = 630

	scale      = 3
	baseWidth  = Width / scale
	baseHeight = Height / scale
	margin     = 20
	lineHeight = 16
)

var (
	backgroundTop    = color.RGBA{R: 0xff, G: 0xf4, B: 0xe0, A: 0xff}
	backgroundBottom = color.RGBA{R: 0xe9, G: 0xfb, B: 0xef, A: 0xff}
	accent           = color.RGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}
	ink              = color.RGBA{R: 0x1f, G: 0x1a, B: 0x17, A: 0xff}
	muted            = color.RGBA{R: 0x6b, G: 0x62, B: 0x5b, A: 0xff}
)

// Renderer 渲染并缓存每个页面的预览图。
type Renderer struct {
	brand string
	tag   string

	group singleflight.Group
	cache sync.Map
}

// New creates a renderer that stamps brand and tagline on every image.
func New(brand, tagline string) *Renderer {
	return &Renderer{brand: brand, tag: tagline}
}

// PNG returns the encoded preview for key. Images are rendered once per key.
func (r *Renderer) PNG(key, title string) ([]byte, error) {
	if cached, ok := r.cache.Load(key); ok {
		return cached.([]byte), nil
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, r.Draw(title)); err != nil {
			return nil, err
		}
		data := buf.Bytes()
		r.cache.Store(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Draw renders the preview image for title.
func (r *Renderer) Draw(title string) *image.RGBA {
	base := image.NewRGBA(image.Rect(0, 0, baseWidth, baseHeight))
	fillGradient(base)

	// accent bar
	draw.Draw(base, image.Rect(margin, margin, margin+40, margin+3), image.NewUniform(accent), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	maxChars := (baseWidth - 2*margin) / face.Advance

	y := margin + 28
	for _, line := range Wrap(headline(title, r.brand), maxChars) {
		drawText(base, face, ink, margin, y, line)
		y += lineHeight
	}

	drawText(base, face, accent, margin, baseHeight-margin-lineHeight, r.brand)
	drawText(base, face, muted, margin, baseHeight-margin, r.tag)

	out := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.CatmullRom.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)
	return out
}

func fillGradient(img *image.RGBA) {
	h := img.Bounds().Dy()
	for y := 0; y < h; y++ {
		c := lerp(backgroundTop, backgroundBottom, float64(y)/float64(h-1))
		draw.Draw(img, image.Rect(0, y, img.Bounds().Dx(), y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func drawText(dst draw.Image, face font.Face, c color.Color, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// headline strips the trailing brand suffix from a document title.
func headline(title, brand string) string {
	title = strings.TrimSpace(title)
	if brand == "" {
		return title
	}
	for _, sep := range []string{" - ", " | "} {
		if trimmed, ok := strings.CutSuffix(title, sep+brand); ok {
			return trimmed
		}
	}
	return title
}

// Wrap 按单词把文本折成不超过 width 个字符的行，超长单词会被截断成多行。
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
