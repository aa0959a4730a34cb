package zip

import (
	"archive/zip"
	"bytes"
)

type Entry struct {
	Filename string
	MIME     string
	Data     []byte
}

// Archive packs the entries into an in-memory zip. Entries that fail to be
// added are skipped rather than aborting the archive.
func Archive(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Filename)
		if err != nil {
			continue
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}

// ExtensionForMIME maps an image content type to a file extension, defaulting
// to png since slide renders are always png.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}
