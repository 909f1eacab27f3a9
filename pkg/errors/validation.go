package errors

import (
	"io/fs"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Extensions accepted for IMAGE and ICON assets.
var (
	RasterExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
	IconExts   = []string{".svg"}
)

const maxAssetName = 255

// ValidateAsset checks an IMAGE or ICON name before it is opened. Names are
// slash-separated and relative to the asset directory, so absolute paths,
// ".." elements and backslashes are refused. When exts is non-empty the
// extension must match one of them, ignoring case.
func ValidateAsset(name string, exts ...string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPath, "asset name is empty")
	case len(name) > maxAssetName:
		return New(ErrCodeInvalidPath, "asset name longer than %d bytes", maxAssetName)
	case strings.ContainsRune(name, '\\'):
		return New(ErrCodeInvalidPath, "asset %q: use / as separator", name)
	case !fs.ValidPath(name) || strings.ContainsFunc(name, isControl):
		return New(ErrCodeInvalidPath, "asset %q escapes the asset directory", name)
	}
	if len(exts) == 0 {
		return nil
	}
	ext := path.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "asset %q: want one of %s", name, strings.Join(exts, " "))
}

func isControl(r rune) bool { return r < 0x20 || r == 0x7f }

// ValidateURL checks a font link. It must be an absolute http(s) URL that
// can sit inside a CSS @import without breaking out of it.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "font link is empty")
	}
	if strings.ContainsAny(raw, "\"'()<>\\ \t\n") {
		return New(ErrCodeInvalidInput, "font link %q contains characters not allowed in a stylesheet", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "font link")
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return New(ErrCodeInvalidInput, "font link %q must be an http or https URL", raw)
	}
	return nil
}

// themeNameRe matches the name part of BOX_, FONT_, TYPE_, GROUP_ and WIRE_
// themes.
var themeNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._+/-]{0,127}$`)

// ValidateThemeName checks the name part of a namespaced theme.
func ValidateThemeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "theme name is empty")
	}
	if !themeNameRe.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid theme name %q", name)
	}
	return nil
}
