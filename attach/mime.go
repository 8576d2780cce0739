package attach

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// DefaultMime is used for files without extension.
const DefaultMime = "application/octet-stream"

// MimeTable maps lower case file extension (with leading dot) to MIME type.
var MimeTable = map[string]string{
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".ico":  "image/vnd.microsoft.icon",
	".jpe":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".eps":  "application/postscript",
	".ps":   "application/postscript",
	".ai":   "application/postscript",
	".pdf":  "application/pdf",
	".json": "application/json",
	".xml":  "text/xml",
	".xsl":  "application/xml",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".doc":  "application/msword",
	".xls":  "application/vnd.ms-excel",
	".ppt":  "application/vnd.ms-powerpoint",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".bin":  "application/octet-stream",
	".mp3":  "audio/mpeg",
	".wav":  "audio/x-wav",
	".mp4":  "video/mp4",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
}

// UnmappedMimeError reports attachment with extension which has no known
// MIME type.
type UnmappedMimeError struct {
	File string
	Ext  string
}

func (e *UnmappedMimeError) Error() string {
	return fmt.Sprintf("no MIME type known for extension %q (%s)", e.Ext, e.File)
}

// Mimes resolves MIME type by file extension. Extra entries take precedence
// over MimeTable, extensions unknown to both are looked up in filetype
// registry.
type Mimes struct {
	extra map[string]string
}

func NewMimes(extra map[string]string) Mimes {
	return Mimes{extra: extra}
}

// ByName returns MIME type for file name.
func (m Mimes) ByName(name string) (string, error) {
	ext := filepath.Ext(name)
	if len(ext) == 0 {
		return DefaultMime, nil
	}
	key := strings.ToLower(ext)
	if mt, ok := m.extra[key]; ok {
		return mt, nil
	}
	if mt, ok := MimeTable[key]; ok {
		return mt, nil
	}
	if t := filetype.GetType(key[1:]); t != filetype.Unknown {
		return t.MIME.Value, nil
	}
	return "", &UnmappedMimeError{File: name, Ext: ext}
}

// sniff returns MIME type detected from file content or empty string.
func sniff(data []byte) string {
	t, err := filetype.Match(data)
	if err != nil || t == filetype.Unknown {
		return ""
	}
	return t.MIME.Value
}
