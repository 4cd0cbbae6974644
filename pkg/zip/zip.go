package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

type Asset struct {
	Filename string
	MIME     string
	Data     []byte
}

// ArchiveAssets bundles the assets into one zip payload. Duplicate or empty
// filenames are disambiguated with a numeric suffix so every asset survives
// the archive.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]int, len(assets))
	for i, asset := range assets {
		name := safeFilename(asset, i, seen)
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safeFilename(asset Asset, index int, seen map[string]int) string {
	name := strings.TrimSpace(asset.Filename)
	if name == "" {
		name = fmt.Sprintf("asset-%02d", index+1)
	}
	if !strings.Contains(name, ".") {
		name += extensionFor(asset.MIME)
	}
	if n := seen[name]; n > 0 {
		seen[name] = n + 1
		if dot := strings.LastIndex(name, "."); dot > 0 {
			name = fmt.Sprintf("%s-%d%s", name[:dot], n, name[dot:])
		} else {
			name = fmt.Sprintf("%s-%d", name, n)
		}
	} else {
		seen[name] = 1
	}
	return name
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	default:
		return ".png"
	}
}
