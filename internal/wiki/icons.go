package wiki

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

// WriteIcon decodes the icon at src and writes it to dst as PNG. Relative sources
// are resolved against assetDir.
func WriteIcon(assetDir, src, dst string) error {
	if !filepath.IsAbs(src) && assetDir != "" {
		src = filepath.Join(assetDir, src)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIconDecode, src, err)
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIconDecode, src, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode %s: %w", dst, err)
	}
	return out.Close()
}
