package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Frame is a dense width×height buffer of linear RGB colors in [0,1],
// addressed as x + y*Width
type Frame struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[x+y*f.Width]
}

// Set stores the color of pixel (x, y)
func (f *Frame) Set(x, y int, c core.Vec3) {
	f.Pixels[x+y*f.Width] = c
}

// ToRGBA converts the frame to an 8-bit image. Channels are clamped to [0,1] first.
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.At(x, y)))
		}
	}
	return img
}

// WritePNG encodes the frame as a PNG image
func (f *Frame) WritePNG(w io.Writer) error {
	if err := png.Encode(w, f.ToRGBA()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// EncodeGIF writes frames as a looping animated GIF with delay in 100ths of a second between frames
func EncodeGIF(w io.Writer, frames []*Frame, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		img := frame.ToRGBA()
		paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}

	if err := gif.EncodeAll(w, &anim); err != nil {
		return fmt.Errorf("failed to encode GIF: %w", err)
	}
	return nil
}

func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
