package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	stderrors "errors"
	"image"
	"io/fs"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/geom"
)

const defaultIconSize = 100.0

func (r *Renderer) drawImage(c *command.Image) error {
	crop := []*float64{c.CropX, c.CropY, c.CropW, c.CropH}
	given := 0
	for _, v := range crop {
		if v != nil {
			given++
		}
	}
	if given != 0 && given != len(crop) {
		return errors.New(errors.ErrCodePartialCrop, "crop needs x, y, width and height, got %d of 4", given)
	}

	data, err := r.readAsset(c.Name, errors.RasterExts...)
	if err != nil {
		return err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image %q", c.Name)
	}

	if given > 0 {
		b := img.Bounds()
		sw, sh := float64(b.Dx()), float64(b.Dy())
		cx, cy := geom.Normalize(*c.CropX, sw), geom.Normalize(*c.CropY, sh)
		cw, ch := geom.NormalizeSize(*c.CropW, sw), geom.NormalizeSize(*c.CropH, sh)
		if cx < 0 || cy < 0 || cw <= 0 || ch <= 0 || cx+cw > sw || cy+ch > sh {
			return errors.New(errors.ErrCodeInvalidCropBounds,
				"crop %gx%g+%g+%g exceeds image %gx%g", cw, ch, cx, cy, sw, sh)
		}
		img = imaging.Crop(img, image.Rect(int(cx), int(cy), int(cx+cw), int(cy+ch)))
	}

	b := img.Bounds()
	nw, nh := float64(b.Dx()), float64(b.Dy())
	w := geom.NormalizeSizeOpt(c.W, nw, nw)
	h := geom.NormalizeSizeOpt(c.H, nh, nh)
	if c.W != nil || c.H != nil {
		img = imaging.Resize(img, max(int(w), 1), max(int(h), 1), imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode image %q", c.Name)
	}
	r.placeImage("data:image/png;base64,", buf.Bytes(), c.X, c.Y, w, h, c.Rotation)
	return nil
}

func (r *Renderer) drawIcon(c *command.Icon) error {
	data, err := r.readAsset(c.Name, errors.IconExts...)
	if err != nil {
		return err
	}
	nw, nh := svgSize(data)
	w := geom.NormalizeSizeOpt(c.W, nw, nw)
	h := geom.NormalizeSizeOpt(c.H, nh, nh)
	r.placeImage("data:image/svg+xml;base64,", data, c.X, c.Y, w, h, c.Rotation)
	return nil
}

// placeImage adds an image centered on (x, y). Positions are relative to
// the page resolution and default to the top-left corner.
func (r *Renderer) placeImage(prefix string, data []byte, x, y *float64, w, h float64, rot *float64) {
	pw, ph := r.doc.Resolution()
	cx := geom.NormalizeOpt(x, float64(pw), 0)
	cy := geom.NormalizeOpt(y, float64(ph), 0)
	img := &document.Image{
		Box:  geom.Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h},
		Href: prefix + base64.StdEncoding.EncodeToString(data),
	}
	if rot != nil {
		img.Rotation = *rot
	}
	r.doc.Add(img)
}

func (r *Renderer) readAsset(name string, exts ...string) ([]byte, error) {
	if err := errors.ValidateAsset(name, exts...); err != nil {
		return nil, err
	}
	if r.assets == nil {
		return nil, errors.New(errors.ErrCodeMissingAsset, "asset %q: no asset directory configured", name)
	}
	data, err := fs.ReadFile(r.assets, name)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New(errors.ErrCodeMissingAsset, "asset %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read asset %q", name)
	}
	return data, nil
}

// svgSize reads the width and height of an SVG root element. Missing or
// unitless-unparseable sizes fall back to the viewBox, then to a square of
// defaultIconSize.
func svgSize(data []byte) (float64, float64) {
	var root struct {
		XMLName xml.Name
		Width   string `xml:"width,attr"`
		Height  string `xml:"height,attr"`
		ViewBox string `xml:"viewBox,attr"`
	}
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return defaultIconSize, defaultIconSize
	}
	w, wok := svgLength(root.Width)
	h, hok := svgLength(root.Height)
	if wok && hok {
		return w, h
	}
	if f := strings.Fields(strings.ReplaceAll(root.ViewBox, ",", " ")); len(f) == 4 {
		vw, err1 := strconv.ParseFloat(f[2], 64)
		vh, err2 := strconv.ParseFloat(f[3], 64)
		if err1 == nil && err2 == nil && vw > 0 && vh > 0 {
			return vw, vh
		}
	}
	return defaultIconSize, defaultIconSize
}

func svgLength(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil && v > 0
}
