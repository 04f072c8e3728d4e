package chat

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mindcare-ai/mindcare/internal/llm"
)

// MaxImageBytes caps an attached image.
const MaxImageBytes = 10 << 20

// LoadImage reads an image file for attachment. The MIME type comes from
// the file extension, falling back to content sniffing; non-images are
// rejected.
func LoadImage(path string) (*llm.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("image is %d bytes, limit is %d", info.Size(), MaxImageBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s is not an image (%s)", filepath.Base(path), mimeType)
	}
	return &llm.Image{MIMEType: mimeType, Data: data}, nil
}
