// Package badgeart renders donation badges as PNG images. Rendering is a
// pure function of the badge fields, so the same badge always produces the
// same bytes and responses can be cached indefinitely.
package badgeart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	imgWidth  = 320
	imgHeight = 180
	bandH     = 48
	marginX   = 16
	lineH     = 22
)

// Badge carries the fields stamped onto the card. CampaignID may be empty
// for badges minted outside a campaign.
type Badge struct {
	Type       string
	Owner      string
	CampaignID string
	MintedAt   uint64
}

var (
	cardBG    = color.RGBA{24, 26, 32, 255}
	bandText  = color.RGBA{20, 20, 20, 255}
	labelText = color.RGBA{140, 145, 155, 255}
	valueText = color.RGBA{235, 235, 235, 255}
	footText  = color.RGBA{95, 100, 110, 255}
)

// tierColor picks the band color for a badge type. Unknown types fall back
// to a neutral gray so the renderer never fails on new tiers.
func tierColor(badgeType string) color.RGBA {
	switch badgeType {
	case "Bronze Supporter":
		return color.RGBA{205, 127, 50, 255}
	case "Silver Supporter":
		return color.RGBA{192, 192, 192, 255}
	case "Gold Supporter":
		return color.RGBA{255, 215, 0, 255}
	case "Platinum Supporter":
		return color.RGBA{229, 228, 226, 255}
	case "Diamond Supporter":
		return color.RGBA{185, 242, 255, 255}
	default:
		return color.RGBA{120, 125, 135, 255}
	}
}

// Render draws the badge card and returns it PNG-encoded.
func Render(b Badge) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))

	fillRect(img, 0, 0, imgWidth, imgHeight, cardBG)
	fillRect(img, 0, 0, imgWidth, bandH, tierColor(b.Type))

	title := b.Type
	if title == "" {
		title = "Supporter"
	}
	drawString(img, marginX, 30, title, bandText)

	y := bandH + 34
	drawString(img, marginX, y, "Owner", labelText)
	drawString(img, marginX+80, y, shorten(b.Owner), valueText)
	y += lineH

	if b.CampaignID != "" {
		drawString(img, marginX, y, "Campaign", labelText)
		drawString(img, marginX+80, y, shorten(b.CampaignID), valueText)
		y += lineH
	}

	drawString(img, marginX, y, "Minted", labelText)
	minted := time.Unix(int64(b.MintedAt), 0).UTC().Format("2006-01-02")
	drawString(img, marginX+80, y, minted, valueText)

	drawString(img, marginX, imgHeight-14, "savia.org/nft", footText)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode badge: %w", err)
	}
	return buf.Bytes(), nil
}

// shorten keeps long identifiers to one line. Face7x13 runs about 7px per
// character, so anything past 28 characters risks the right edge.
func shorten(s string) string {
	if len(s) <= 24 {
		return s
	}
	return s[:12] + "..." + s[len(s)-8:]
}

// fillRect paints a solid rectangle clamped to the image bounds.
func fillRect(img *image.RGBA, x, y, width, height int, col color.RGBA) {
	bounds := img.Bounds()

	x2 := x + width
	y2 := y + height
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x2 > bounds.Dx() {
		x2 = bounds.Dx()
	}
	if y2 > bounds.Dy() {
		y2 = bounds.Dy()
	}

	for py := y; py < y2; py++ {
		for px := x; px < x2; px++ {
			img.Set(px, py, col)
		}
	}
}

// drawString draws a string on the image at the given baseline position.
func drawString(img *image.RGBA, x, y int, text string, col color.Color) {
	point := fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  point,
	}

	d.DrawString(text)
}
