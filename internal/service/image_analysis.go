// Package service contains the application's business logic.
package service

import (
	"bytes"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// Photo renditions are bounded to this edge length; avatars are smaller.
	PhotoMaxEdge  = 1080
	AvatarMaxEdge = 400

	jpegQuality = 85
	webpQuality = 80

	// DefaultTag is used whenever analysis cannot produce anything better.
	DefaultTag = "Standard Photo"

	hdAreaThreshold     = 1_000_000
	brightLumaThreshold = 150.0
	darkLumaThreshold   = 80.0
	analysisSampleEdge  = 64
)

// ProcessedImage is the output of the upload pipeline: a bounded JPEG
// rendition, a WebP preview and the derived tag string.
type ProcessedImage struct {
	JPEG []byte
	WebP []byte
	Tags string
}

// ProcessPhoto decodes, tags and re-encodes an uploaded photo.
func ProcessPhoto(data []byte) (*ProcessedImage, error) {
	return processImage(data, PhotoMaxEdge)
}

// ProcessAvatar is the same pipeline with the avatar size bound.
func ProcessAvatar(data []byte) (*ProcessedImage, error) {
	return processImage(data, AvatarMaxEdge)
}

func processImage(data []byte, maxEdge int) (*ProcessedImage, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	rgb := toRGBA(decoded)
	tags := AnalyzeImage(rgb)
	resized := resizeToFit(rgb, maxEdge, maxEdge)

	jpegData, err := encodeJPEG(resized, jpegQuality)
	if err != nil {
		return nil, err
	}
	webpData, err := encodeWebP(resized, webpQuality)
	if err != nil {
		// The JPEG rendition is the canonical one; a missing preview is
		// tolerable.
		webpData = nil
	}

	return &ProcessedImage{JPEG: jpegData, WebP: webpData, Tags: tags}, nil
}

// AnalyzeImage derives display tags from resolution, mean luminance and the
// dominant color channel. It never fails: anything it cannot classify comes
// back as the default tag.
func AnalyzeImage(img image.Image) string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return DefaultTag
	}

	var tags []string

	if w*h > hdAreaThreshold {
		tags = append(tags, "HD ᴴᴰ")
	} else {
		tags = append(tags, "SD")
	}

	luma := meanLuminance(img)
	switch {
	case luma > brightLumaThreshold:
		tags = append(tags, "Bright ☀️")
	case luma < darkLumaThreshold:
		tags = append(tags, "Dark \U0001f319")
	default:
		tags = append(tags, "Neutral Lighting ☁️")
	}

	r, g, b := dominantChannel(img)
	switch {
	case r > g && r > b:
		tags = append(tags, "Warm Tone \U0001f534")
	case b > r && b > g:
		tags = append(tags, "Cool Tone \U0001f535")
	default:
		tags = append(tags, "Balanced Color \U0001f3a8")
	}

	if len(tags) == 0 {
		return DefaultTag
	}
	return strings.Join(tags, " | ")
}

// meanLuminance averages grayscale over a small downsample so huge images do
// not cost a full-resolution pass.
func meanLuminance(img image.Image) float64 {
	sample := downsample(img, analysisSampleEdge, analysisSampleEdge)
	bounds := sample.Bounds()

	var sum, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := sample.At(x, y).RGBA()
			// ITU-R BT.601 luma on 8-bit channels.
			sum += 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// dominantChannel reduces the image to a single pixel and reports its
// channels. The box filter makes this the per-channel mean.
func dominantChannel(img image.Image) (uint8, uint8, uint8) {
	px := image.NewRGBA(image.Rect(0, 0, 1, 1))
	xdraw.BiLinear.Scale(px, px.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	c := px.RGBAAt(0, 0)
	return c.R, c.G, c.B
}

func downsample(src image.Image, maxW, maxH int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= maxW && bounds.Dy() <= maxH {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxW, maxH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, bounds.Min, xdraw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
