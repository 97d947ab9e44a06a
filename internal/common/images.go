package common

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

type ImageSize struct {
	Width  uint
	Height uint
}

func (s ImageSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// AvatarSizes are the variants generated for every uploaded avatar.
var AvatarSizes = []ImageSize{
	{Width: 512, Height: 512},
	{Width: 128, Height: 128},
	{Width: 32, Height: 32},
}

func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	return img, format, nil
}

func EncodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported image format %s", format)
	}

	return buf.Bytes(), nil
}

func ResizeImage(img image.Image, size ImageSize) image.Image {
	return resize.Resize(size.Width, size.Height, img, resize.Lanczos3)
}
