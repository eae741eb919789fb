package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// CellSetter is the part of a terminal screen the preview draws on
type CellSetter interface {
	SetCell(x, y int, c *uv.Cell)
}

// ImageView shows a rendered image on a terminal screen, two pixels per cell
type ImageView struct {
	Image *renderer.Image
}

// FitSize returns the view size in cells that shows the whole image inside
// cols x rows while keeping its aspect ratio. A cell is one pixel wide and two tall.
func FitSize(imgWidth, imgHeight, cols, rows int) (int, int) {
	if imgWidth <= 0 || imgHeight <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	scale := min(float64(cols)/float64(imgWidth), float64(2*rows)/float64(imgHeight))
	w := max(1, int(float64(imgWidth)*scale))
	h := max(1, int(float64(imgHeight)*scale/2))
	return min(w, cols), min(h, rows)
}

// Draw paints the image scaled into area.
// We use ▀ (upper half block) with fg=top pixel and bg=bottom pixel.
func (v ImageView) Draw(scr CellSetter, area uv.Rectangle) {
	img := v.Image
	w, h := FitSize(img.Width, img.Height, area.Dx(), area.Dy())
	if w == 0 || h == 0 {
		return
	}

	for row := 0; row < h; row++ {
		topY := (2 * row) * img.Height / (2 * h)
		botY := (2*row + 1) * img.Height / (2 * h)

		for col := 0; col < w; col++ {
			x := col * img.Width / w

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: toColor(img, x, topY),
					Bg: toColor(img, x, botY),
				},
			}
			scr.SetCell(area.Min.X+col, area.Min.Y+row, cell)
		}
	}
}

func toColor(img *renderer.Image, x, y int) color.Color {
	p := img.At(x, y)
	return color.RGBA{
		R: renderer.ChannelByte(p.X),
		G: renderer.ChannelByte(p.Y),
		B: renderer.ChannelByte(p.Z),
		A: 255,
	}
}

// Show displays the image full screen until a key is pressed or ctx is done
func Show(ctx context.Context, img *renderer.Image) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	view := ImageView{Image: img}
	draw := func() error {
		term.Erase()
		view.Draw(term, uv.Rectangle{Min: image.Pt(0, 0), Max: image.Pt(width, height)})
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		return nil
	}
	if err := draw(); err != nil {
		return err
	}

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Resize(width, height)
				if err := draw(); err != nil {
					return err
				}
			case uv.KeyPressEvent:
				return nil
			}
		}
	}
}
