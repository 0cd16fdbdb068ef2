package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode decompresses Flate (zlib/deflate) compressed data and applies
// the predictor named in params, if any. This is the most common stream
// filter in PDFs.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}

	predictor := params.Int("Predictor", 1)
	switch {
	case predictor == 1:
		return decoded, nil
	case predictor == 2:
		return undoTIFFPredictor(decoded, params)
	case predictor >= 10 && predictor <= 15:
		return undoPNGPredictor(decoded, params)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// undoTIFFPredictor reverses TIFF Predictor 2, which predicts each sample
// from the sample to its left.
func undoTIFFPredictor(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", 1)
	colors := params.Int("Colors", 1)
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor needs 8 bits per component, got %d", bpc)
	}

	rowSize := columns * colors
	if rowSize <= 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	out := make([]byte, len(data))
	for start := 0; start < len(data); start += rowSize {
		for i := 0; i < rowSize; i++ {
			idx := start + i
			if i < colors {
				out[idx] = data[idx]
			} else {
				out[idx] = data[idx] + out[idx-colors]
			}
		}
	}
	return out, nil
}

// undoPNGPredictor reverses the PNG row predictors. Each encoded row is
// prefixed with a filter-type byte (0=None, 1=Sub, 2=Up, 3=Average,
// 4=Paeth) that applies to that row only.
func undoPNGPredictor(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", 1)
	colors := params.Int("Colors", 1)
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("PNG predictor needs 8 bits per component, got %d", bpc)
	}

	rowLen := columns * colors
	encodedRowLen := rowLen + 1
	if rowLen <= 0 || len(data)%encodedRowLen != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), encodedRowLen)
	}

	numRows := len(data) / encodedRowLen
	out := make([]byte, numRows*rowLen)
	var prev []byte

	for row := 0; row < numRows; row++ {
		filterType := data[row*encodedRowLen]
		src := data[row*encodedRowLen+1 : (row+1)*encodedRowLen]
		dst := out[row*rowLen : (row+1)*rowLen]

		for i := range src {
			var left, up, upLeft byte
			if i >= colors {
				left = dst[i-colors]
			}
			if prev != nil {
				up = prev[i]
				if i >= colors {
					upLeft = prev[i-colors]
				}
			}

			var predicted byte
			switch filterType {
			case 0:
			case 1:
				predicted = left
			case 2:
				predicted = up
			case 3:
				predicted = byte((int(left) + int(up)) / 2)
			case 4:
				predicted = paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter type %d", row, filterType)
			}
			dst[i] = src[i] + predicted
		}
		prev = dst
	}
	return out, nil
}

// paeth selects the neighbor closest to the linear prediction left+up-upLeft,
// as defined by the PNG specification.
func paeth(left, up, upLeft byte) byte {
	p := int(left) + int(up) - int(upLeft)
	pa := absInt(p - int(left))
	pb := absInt(p - int(up))
	pc := absInt(p - int(upLeft))

	if pa <= pb && pa <= pc {
		return left
	}
	if pb <= pc {
		return up
	}
	return upLeft
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
