package documents

import (
	"net/http"
	"path"
	"strings"
)

// allowedMimeTypes is the upload allow-list. Both the declared content type
// and the sniffed content of the file must land here.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/webp":      {},
	"text/csv":        {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {},
}

// Office and CSV files sniff as generic zip or text, so sniffing is held to
// a weaker standard for those declared types.
var sniffEquivalents = map[string][]string{
	"text/csv": {"text/plain; charset=utf-8", "text/csv"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {"application/zip"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {"application/zip"},
}

func AllowedMime(declared string) bool {
	_, ok := allowedMimeTypes[normalizeMime(declared)]
	return ok
}

// SniffMatches checks the first bytes of the upload against the declared
// type using http.DetectContentType.
func SniffMatches(declared string, head []byte) bool {
	declared = normalizeMime(declared)
	sniffed := http.DetectContentType(head)
	if normalizeMime(sniffed) == declared {
		return true
	}
	for _, alt := range sniffEquivalents[declared] {
		if sniffed == alt || normalizeMime(sniffed) == normalizeMime(alt) {
			return true
		}
	}
	return false
}

func normalizeMime(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return value
}

// SanitizeFileName strips any path components and characters that have no
// business in a storage key.
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "arquivo"
	}
	return cleaned
}
