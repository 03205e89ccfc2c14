package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.7\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF")

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDocumentRules(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantMIME string
		tooLarge bool
		wantErr  bool
	}{
		{name: "pdf", filename: "pan.pdf", data: pdfBytes, wantMIME: "application/pdf"},
		{name: "png upper ext", filename: "AADHAR.PNG", data: pngBytes(t, 4, 4), wantMIME: "image/png"},
		{name: "spoofed pdf", filename: "pan.pdf", data: pngBytes(t, 4, 4), wantErr: true},
		{name: "docx not allowed", filename: "cv.docx", data: []byte("PK\x03\x04rest"), wantErr: true},
		{name: "no extension", filename: "pan", data: pdfBytes, wantErr: true},
		{name: "empty", filename: "pan.pdf", data: nil, wantErr: true},
		{name: "too large", filename: "pan.pdf", data: append(append([]byte{}, pdfBytes...), make([]byte, 5<<20)...), tooLarge: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := DocumentRules.Validate(tt.filename, tt.data)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantMIME, mime)
				return
			}
			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.tooLarge, vErr.TooLarge)
		})
	}
}

func TestPhotoRulesRejectPDF(t *testing.T) {
	_, err := PhotoRules.Validate("me.pdf", pdfBytes)
	assert.Error(t, err)
}

func TestCompressImage(t *testing.T) {
	out, err := CompressImage(pngBytes(t, 1600, 400), AvatarMaxDimension, AvatarQuality)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestCompressImage_KeepsSmallImages(t *testing.T) {
	out, err := CompressImage(pngBytes(t, 120, 300), AvatarMaxDimension, AvatarQuality)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestCompressImage_NotAnImage(t *testing.T) {
	_, err := CompressImage(pdfBytes, AvatarMaxDimension, AvatarQuality)
	assert.Error(t, err)
}
