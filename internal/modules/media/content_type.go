package media

import "strings"

const (
	fileTypeImage = "image"
	fileTypeVideo = "video"
	defaultExt    = "jpg"
)

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"heic": "image/heic",
	"heif": "image/heif",
	"mp4":  "video/mp4",
	"m4v":  "video/x-m4v",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"webm": "video/webm",
	"mkv":  "video/x-matroska",
	"3gp":  "video/3gpp",
	"pdf":  "application/pdf",
}

// extension returns the part after the last dot of name, or jpg when
// there is none or it is not plain ASCII letters and digits.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return defaultExt
	}
	ext := name[i+1:]
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return defaultExt
		}
	}
	return ext
}

// validKeySegment reports whether s can be used as one segment of an
// object key.
func validKeySegment(s string) bool {
	return s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// contentTypeFor picks the MIME type by extension, falling back on the
// declared file type.
func contentTypeFor(ext, fileType string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	switch strings.ToLower(fileType) {
	case fileTypeImage:
		return "image/jpeg"
	case fileTypeVideo:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
