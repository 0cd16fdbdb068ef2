package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"

	"github.com/jeskokaiser/altfragen-io-backend/model"
)

// PlacedImage is an image found on a page together with the rectangle it
// was painted into, in top-down coordinates. Data holds the stored
// payload: the raw JPEG for DCT encoded images, otherwise a PNG
// re-encoding of the decoded samples. ObjectNumber identifies the
// underlying XObject so the same image referenced from several pages can
// be recognised; inline images carry object number zero.
type PlacedImage struct {
	ObjectNumber int
	Name         string
	Width        int
	Height       int
	Data         []byte
	Ext          string
	BBox         model.BBox
	Placed       bool
}

// rawImage is an image XObject or inline image before payload
// conversion.
type rawImage struct {
	object     int
	name       string
	width      int
	height     int
	bpc        int
	colorSpace string
	filter     string
	data       []byte
}

// Images returns the image XObjects referenced by the page resources.
// Placement rectangles come from the Do operators in the content stream;
// an image listed in the resources but never painted is returned with
// Placed false and a zero rectangle.
func (p *Page) Images() ([]PlacedImage, error) {
	raws, err := p.imageXObjects()
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, nil
	}

	placements := map[string]model.BBox{}
	if data, err := p.contentData(); err == nil && len(data) > 0 {
		in := newInterpreter(p.Height())
		if err := in.run(data); err == nil {
			for _, use := range in.images {
				if _, seen := placements[use.name]; !seen {
					placements[use.name] = use.bbox
				}
			}
		}
	}

	var result []PlacedImage
	for _, raw := range raws {
		data, ext, err := raw.payload()
		if err != nil {
			continue
		}
		placed := PlacedImage{
			ObjectNumber: raw.object,
			Name:         raw.name,
			Width:        raw.width,
			Height:       raw.height,
			Data:         data,
			Ext:          ext,
		}
		if bbox, ok := placements[raw.name]; ok && bbox.IsValid() {
			placed.BBox = bbox
			placed.Placed = true
		}
		result = append(result, placed)
	}
	return result, nil
}

// InlineImages returns the BI..EI images embedded directly in the
// content stream. Most exam PDFs use XObjects, so this is the fallback
// path.
func (p *Page) InlineImages() ([]PlacedImage, error) {
	data, err := p.contentData()
	if err != nil || len(data) == 0 {
		return nil, err
	}

	in := newInterpreter(p.Height())
	if err := in.run(data); err != nil {
		return nil, fmt.Errorf("page %d: %w", p.Index, err)
	}

	var result []PlacedImage
	for i, inl := range in.inline {
		raw, err := p.doc.inlineToRaw(inl, i)
		if err != nil {
			continue
		}
		data, ext, err := raw.payload()
		if err != nil {
			continue
		}
		result = append(result, PlacedImage{
			Name:   raw.name,
			Width:  raw.width,
			Height: raw.height,
			Data:   data,
			Ext:    ext,
			BBox:   inl.bbox,
			Placed: inl.bbox.IsValid(),
		})
	}
	return result, nil
}

// imageXObjects collects the image streams from the page's XObject
// resource dictionary, sorted by name for stable ordering.
func (p *Page) imageXObjects() ([]rawImage, error) {
	resources, err := p.Resources()
	if err != nil || resources == nil {
		return nil, nil
	}

	xobjObj, err := p.doc.resolve(resources.Get("XObject"))
	if err != nil {
		return nil, fmt.Errorf("page %d: resolving XObject dictionary: %w", p.Index, err)
	}
	xobjects, ok := xobjObj.(Dict)
	if !ok {
		return nil, nil
	}

	names := make([]string, 0, len(xobjects))
	for name := range xobjects {
		names = append(names, name)
	}
	sort.Strings(names)

	var raws []rawImage
	for _, name := range names {
		objNum := 0
		entry := xobjects[name]
		if ref, ok := entry.(Ref); ok {
			objNum = ref.Number
		}

		resolved, err := p.doc.resolve(entry)
		if err != nil {
			continue
		}
		stream, ok := resolved.(*Stream)
		if !ok {
			continue
		}
		if subtype, ok := stream.Dict.GetName("Subtype"); !ok || subtype != "Image" {
			continue
		}

		raw, err := p.doc.streamToRaw(name, objNum, stream)
		if err != nil {
			continue
		}
		raws = append(raws, *raw)
	}
	return raws, nil
}

// streamToRaw reads the image properties and decoded data from an image
// XObject stream.
func (d *Document) streamToRaw(name string, objNum int, stream *Stream) (*rawImage, error) {
	widthInt, okW := stream.Dict.GetInt("Width")
	heightInt, okH := stream.Dict.GetInt("Height")
	width, height := int(widthInt), int(heightInt)
	if !okW || !okH || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %s: missing dimensions", name)
	}

	bpc := 8
	if v, ok := stream.Dict.GetInt("BitsPerComponent"); ok {
		bpc = int(v)
	}

	colorSpace := "DeviceGray"
	if cs := stream.Dict.Get("ColorSpace"); cs != nil {
		colorSpace = d.colorSpaceName(cs, 0)
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", name, err)
	}

	return &rawImage{
		object:     objNum,
		name:       name,
		width:      width,
		height:     height,
		bpc:        bpc,
		colorSpace: colorSpace,
		filter:     stream.filterName(),
		data:       data,
	}, nil
}

// inlineToRaw builds a rawImage from an inline image, expanding the
// abbreviated dictionary keys.
func (d *Document) inlineToRaw(inl inlineImage, seq int) (*rawImage, error) {
	dict := expandInlineKeys(inl.dict)
	stream := &Stream{Dict: dict, Raw: inl.data}
	return d.streamToRaw(fmt.Sprintf("inline%d", seq), 0, stream)
}

// inlineKeyNames maps abbreviated inline image keys to their full forms.
var inlineKeyNames = map[string]string{
	"F":   "Filter",
	"DP":  "DecodeParms",
	"W":   "Width",
	"H":   "Height",
	"BPC": "BitsPerComponent",
	"CS":  "ColorSpace",
	"IM":  "ImageMask",
	"D":   "Decode",
}

// inlineValueNames maps abbreviated inline filter and color space names.
var inlineValueNames = map[Name]Name{
	"G":    "DeviceGray",
	"RGB":  "DeviceRGB",
	"CMYK": "DeviceCMYK",
	"I":    "Indexed",
	"AHx":  "ASCIIHexDecode",
	"A85":  "ASCII85Decode",
	"Fl":   "FlateDecode",
	"CCF":  "CCITTFaxDecode",
	"DCT":  "DCTDecode",
}

func expandInlineKeys(dict Dict) Dict {
	out := make(Dict, len(dict))
	for key, value := range dict {
		if full, ok := inlineKeyNames[key]; ok {
			key = full
		}
		if name, ok := value.(Name); ok {
			if full, ok := inlineValueNames[name]; ok {
				value = full
			}
		}
		out[key] = value
	}
	return out
}

// colorSpaceName reduces a color space object to a device name. For
// Indexed spaces the base space decides how the samples are stored, so
// the lookup recurses on it.
func (d *Document) colorSpaceName(obj Object, depth int) string {
	if depth > 4 {
		return "DeviceGray"
	}
	resolved, err := d.resolve(obj)
	if err != nil {
		return "DeviceGray"
	}
	switch v := resolved.(type) {
	case Name:
		return string(v)
	case Array:
		if len(v) == 0 {
			break
		}
		name, ok := v[0].(Name)
		if !ok {
			break
		}
		switch string(name) {
		case "Indexed":
			if len(v) > 1 {
				return d.colorSpaceName(v[1], depth+1)
			}
		case "ICCBased":
			return "ICCBased"
		default:
			return string(name)
		}
	}
	return "DeviceGray"
}

// payload converts the image to its stored form. DCT streams are already
// JPEG files and pass through untouched; everything else is re-encoded
// as PNG from the decoded samples.
func (img *rawImage) payload() ([]byte, string, error) {
	switch img.filter {
	case "DCTDecode", "DCT":
		return img.data, "jpg", nil
	case "JPXDecode":
		return img.data, "jp2", nil
	}

	goImg, err := img.toImage()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, "", fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), "png", nil
}

// toImage converts the decoded samples to a Go image according to the
// color space and bit depth.
func (img *rawImage) toImage() (image.Image, error) {
	switch img.colorSpace {
	case "DeviceRGB", "CalRGB":
		return img.toRGB()
	case "DeviceCMYK":
		return img.toCMYK()
	default:
		// DeviceGray, CalGray, ICCBased and anything unrecognised
		// are treated as grayscale.
		return img.toGray()
	}
}

func (img *rawImage) toGray() (*image.Gray, error) {
	out := image.NewGray(image.Rect(0, 0, img.width, img.height))

	switch img.bpc {
	case 8:
		need := img.width * img.height
		if len(img.data) < need {
			return nil, fmt.Errorf("grayscale image: %d bytes, need %d", len(img.data), need)
		}
		copy(out.Pix, img.data[:need])

	case 4:
		rowBytes := (img.width + 1) / 2
		if len(img.data) < rowBytes*img.height {
			return nil, fmt.Errorf("4-bit image: %d bytes, need %d", len(img.data), rowBytes*img.height)
		}
		for y := 0; y < img.height; y++ {
			row := img.data[y*rowBytes:]
			for x := 0; x < img.width; x++ {
				nibble := row[x/2] >> 4
				if x%2 == 1 {
					nibble = row[x/2] & 0x0f
				}
				out.Pix[y*img.width+x] = nibble * 17
			}
		}

	case 1:
		rowBytes := (img.width + 7) / 8
		if len(img.data) < rowBytes*img.height {
			return nil, fmt.Errorf("1-bit image: %d bytes, need %d", len(img.data), rowBytes*img.height)
		}
		for y := 0; y < img.height; y++ {
			row := img.data[y*rowBytes:]
			for x := 0; x < img.width; x++ {
				bit := (row[x/8] >> (7 - x%8)) & 1
				if bit == 0 {
					out.Pix[y*img.width+x] = 0
				} else {
					out.Pix[y*img.width+x] = 255
				}
			}
		}

	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", img.bpc)
	}

	return out, nil
}

func (img *rawImage) toRGB() (*image.RGBA, error) {
	if img.bpc != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", img.bpc)
	}
	need := img.width * img.height * 3
	if len(img.data) < need {
		return nil, fmt.Errorf("rgb image: %d bytes, need %d", len(img.data), need)
	}

	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for i := 0; i < img.width*img.height; i++ {
		out.Pix[i*4+0] = img.data[i*3+0]
		out.Pix[i*4+1] = img.data[i*3+1]
		out.Pix[i*4+2] = img.data[i*3+2]
		out.Pix[i*4+3] = 255
	}
	return out, nil
}

func (img *rawImage) toCMYK() (*image.RGBA, error) {
	if img.bpc != 8 {
		return nil, fmt.Errorf("unsupported bits per component for CMYK: %d", img.bpc)
	}
	need := img.width * img.height * 4
	if len(img.data) < need {
		return nil, fmt.Errorf("cmyk image: %d bytes, need %d", len(img.data), need)
	}

	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for i := 0; i < img.width*img.height; i++ {
		r, g, b := color.CMYKToRGB(img.data[i*4], img.data[i*4+1], img.data[i*4+2], img.data[i*4+3])
		out.Pix[i*4+0] = r
		out.Pix[i*4+1] = g
		out.Pix[i*4+2] = b
		out.Pix[i*4+3] = 255
	}
	return out, nil
}
