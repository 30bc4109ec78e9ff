package domain

import (
	"path/filepath"
	"strings"
)

const MaxImageSize = 20 << 20

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".bmp": {},
}

func IsAllowedImageExt(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ImageExtForMIME maps an inbound document MIME type to a file extension.
func ImageExtForMIME(mime string) (string, bool) {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/gif":
		return ".gif", true
	case "image/webp":
		return ".webp", true
	case "image/bmp":
		return ".bmp", true
	default:
		return "", false
	}
}

// IsWithinRoot reports whether path lies at or below root. Both must already
// be cleaned absolute paths.
func IsWithinRoot(path, root string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
