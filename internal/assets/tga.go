package assets

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

// tgaHeaderSize is the fixed TGA header length.
const tgaHeaderSize = 18

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA image
// with 24 or 32 bits per pixel. 24-bit images are fully opaque.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := &tgaDecoder{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		data:        data[offset:],
		width:       width,
		height:      height,
		stride:      bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}
	if imageType == TGATypeUncompressed {
		if len(d.data) < width*height*d.stride {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for d.pixel < width*height {
			d.put(d.read())
		}
		return d.img, nil
	}
	if err := d.decodeRLE(); err != nil {
		return nil, err
	}
	return d.img, nil
}

// tgaDecoder writes TGA pixels in file order into img.
type tgaDecoder struct {
	img         *image.NRGBA
	data        []byte
	pos         int
	pixel       int
	width       int
	height      int
	stride      int
	topToBottom bool
}

// read consumes one BGR(A) pixel.
func (d *tgaDecoder) read() color.NRGBA {
	p := d.data[d.pos : d.pos+d.stride]
	d.pos += d.stride
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.stride == 4 {
		c.A = p[3]
	}
	return c
}

// put stores c at the next pixel position.
func (d *tgaDecoder) put(c color.NRGBA) {
	x, y := d.pixel%d.width, d.pixel/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetNRGBA(x, y, c)
	d.pixel++
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	for d.pixel < total {
		if d.pos >= len(d.data) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d", d.pixel)
		}
		packet := d.data[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1
		repeat := packet&0x80 != 0

		if repeat {
			if d.pos+d.stride > len(d.data) {
				return fmt.Errorf("TGA RLE data truncated at pixel %d", d.pixel)
			}
			c := d.read()
			for i := 0; i < count && d.pixel < total; i++ {
				d.put(c)
			}
			continue
		}
		for i := 0; i < count && d.pixel < total; i++ {
			if d.pos+d.stride > len(d.data) {
				return fmt.Errorf("TGA RLE data truncated at pixel %d", d.pixel)
			}
			d.put(d.read())
		}
	}
	return nil
}

// IsMagentaKey reports whether an RGB color is the magenta transparency key.
// It tolerates small deviations introduced by BMP encoders.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey converts img to NRGBA with every magenta pixel made fully
// transparent.
func ApplyMagentaKey(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if IsMagentaKey(c.R, c.G, c.B) {
				c = color.NRGBA{}
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
