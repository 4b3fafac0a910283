package service

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/testutil"
)

func TestAnalyzeImageTags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		img  image.Image
		want string
	}{
		{
			name: "Large Bright Reddish",
			img:  testutil.SolidImage(1200, 1200, color.RGBA{R: 255, G: 180, B: 150, A: 255}),
			want: "HD ᴴᴰ | Bright ☀️ | Warm Tone \U0001f534",
		},
		{
			name: "Small Dark Blue",
			img:  testutil.SolidImage(100, 100, color.RGBA{B: 120, A: 255}),
			want: "SD | Dark \U0001f319 | Cool Tone \U0001f535",
		},
		{
			name: "Mid Gray Is Neutral And Balanced",
			img:  testutil.SolidImage(500, 500, color.RGBA{R: 128, G: 128, B: 128, A: 255}),
			want: "SD | Neutral Lighting ☁️ | Balanced Color \U0001f3a8",
		},
		{
			name: "Exactly One Megapixel Is Still SD",
			img:  testutil.SolidImage(1000, 1000, color.RGBA{R: 128, G: 128, B: 128, A: 255}),
			want: "SD | Neutral Lighting ☁️ | Balanced Color \U0001f3a8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeImage(tt.img))
		})
	}
}

func TestAnalyzeImageEmptyBounds(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultTag, AnalyzeImage(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestProcessPhotoResizesAndEncodes(t *testing.T) {
	t.Parallel()
	src := testutil.EncodePNG(t, testutil.SolidImage(2000, 1000, color.RGBA{R: 200, G: 200, B: 200, A: 255}))

	got, err := ProcessPhoto(src)
	require.NoError(t, err)
	require.NotEmpty(t, got.JPEG)
	assert.NotEmpty(t, got.WebP)
	assert.Contains(t, got.Tags, "HD")

	decoded, format, err := image.Decode(bytes.NewReader(got.JPEG))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1080, decoded.Bounds().Dx())
	assert.Equal(t, 540, decoded.Bounds().Dy())
}

func TestProcessPhotoKeepsSmallImagesAtSize(t *testing.T) {
	t.Parallel()
	src := testutil.EncodePNG(t, testutil.SolidImage(300, 200, color.RGBA{R: 10, G: 10, B: 10, A: 255}))

	got, err := ProcessPhoto(src)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(got.JPEG))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
	assert.Equal(t, 200, decoded.Bounds().Dy())
}

func TestProcessAvatarBound(t *testing.T) {
	t.Parallel()
	src := testutil.EncodePNG(t, testutil.SolidImage(900, 900, color.RGBA{R: 50, G: 50, B: 50, A: 255}))

	got, err := ProcessAvatar(src)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(got.JPEG))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 400, decoded.Bounds().Dy())
}

func TestProcessPhotoRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := ProcessPhoto([]byte("definitely not an image"))
	assert.Error(t, err)
}
