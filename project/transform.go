package project

import (
	"path"
	"slices"
	"strings"

	"github.com/h2non/filetype"

	"wscss/css"
)

var genericFamilies = []string{
	"serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui",
	"ui-serif", "ui-sans-serif", "ui-monospace", "ui-rounded", "math", "emoji", "fangsong",
}

// ChainTransforms applies transforms in order, each one sees the result of
// the previous. Nil entries are skipped.
func ChainTransforms(transforms ...css.TransformValue) css.TransformValue {
	return func(v css.Value) css.Value {
		changed := false
		for _, t := range transforms {
			if t == nil {
				continue
			}
			if nv := t(v); nv != nil {
				v, changed = nv, true
			}
		}
		if !changed {
			return nil
		}
		return v
	}
}

func assetURL(a Asset, base string) string {
	if a.URL != "" {
		return a.URL
	}
	if base == "" {
		return a.Path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(a.Path, "/")
}

// AssetResolver replaces asset references in image values with their URL.
// Unknown assets are rendered as none.
func AssetResolver(assets map[string]Asset, base string) css.TransformValue {
	return func(v css.Value) css.Value {
		img, ok := v.(css.ImageValue)
		if !ok || img.Asset == "" {
			return nil
		}
		a, ok := assets[img.Asset]
		if !ok {
			return css.ImageValue{Asset: img.Asset, Hidden: true}
		}
		return css.ImageValue{URL: assetURL(a, base), Hidden: img.Hidden}
	}
}

// FontFallback appends configured fallback families to font family lists
// which do not end with a generic family already.
func FontFallback(fallbacks map[string][]string) css.TransformValue {
	if len(fallbacks) == 0 {
		return nil
	}
	return func(v css.Value) css.Value {
		ff, ok := v.(css.FontFamilyValue)
		if !ok || len(ff.Names) == 0 {
			return nil
		}
		if slices.Contains(genericFamilies, strings.ToLower(ff.Names[len(ff.Names)-1])) {
			return nil
		}
		stack, ok := fallbacks[ff.Names[0]]
		if !ok {
			if stack, ok = fallbacks["*"]; !ok {
				return nil
			}
		}
		names := slices.Clone(ff.Names)
		for _, name := range stack {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
		return css.FontFamilyValue{Names: names}
	}
}

var fontFormats = map[string]string{
	"woff":  "woff",
	"woff2": "woff2",
	"ttf":   "truetype",
	"otf":   "opentype",
	"eot":   "embedded-opentype",
}

// FontFormat returns the @font-face format hint for a font file. Content is
// sniffed when data is available, the file extension is used otherwise.
func FontFormat(name string, data []byte) string {
	if len(data) > 0 {
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			return fontFormats[kind.Extension]
		}
	}
	return fontFormats[strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))]
}
