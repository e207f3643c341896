package syncer

import (
	"encoding/base64"
	"path"
	"regexp"
	"strings"
)

// DefaultExtensions are the recognized image types.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "svg", "webp"}

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
}

var invalidShortcodeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// NormalizeShortcode derives a shortcode from a file name: the extension is
// stripped, every character outside [A-Za-z0-9_-] becomes "_", and the
// result is lowercased.
//
//	NormalizeShortcode("My Company@Logo.png") == "my_company_logo"
func NormalizeShortcode(filename string) string {
	name := filename
	if ext := path.Ext(name); len(ext) > 1 {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.ToLower(invalidShortcodeChars.ReplaceAllString(name, "_"))
}

// ShortcodeForPath normalizes the base name of p.
func ShortcodeForPath(p string) string {
	return NormalizeShortcode(path.Base(p))
}

// DataURL encodes data as a self-contained data URL whose media type is
// chosen from the file extension.
func DataURL(ext string, data []byte) string {
	mime, ok := mimeTypes[strings.ToLower(ext)]
	if !ok {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
