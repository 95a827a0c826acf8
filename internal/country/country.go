package country

import (
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// AssetResolver reports whether a bundled image asset exists
type AssetResolver interface {
	HasAsset(name string) bool
}

// FSResolver looks up assets as <name><ext> in a file system
type FSResolver struct {
	fsys fs.FS
	ext  string
}

func NewFSResolver(fsys fs.FS, ext string) *FSResolver {
	return &FSResolver{fsys: fsys, ext: ext}
}

func (r *FSResolver) HasAsset(name string) bool {
	if r == nil || r.fsys == nil {
		return false
	}
	_, err := fs.Stat(r.fsys, name+r.ext)
	return err == nil
}

// Icon is either a bundled flag asset or a generated badge
type Icon struct {
	// Asset is the bundled asset name, empty for a generated badge
	Asset string
	// Badge is an SVG image showing the country code, set when Asset is empty
	Badge string
	// Label is the accessibility label
	Label string
}

func (i Icon) Generated() bool {
	return i.Asset == ""
}

type Country struct {
	Code string
	Name string
	Icon Icon
}

type Helper struct {
	assets AssetResolver
}

// NewHelper creates a lookup helper. A nil resolver means every icon is a
// generated badge.
func NewHelper(assets AssetResolver) *Helper {
	return &Helper{assets: assets}
}

// Lookup resolves a two-letter ISO 3166-1 code, in any case, to its name in
// lang and an icon. Codes without a display name are unknown.
func (h *Helper) Lookup(code string, lang Language) (Country, bool) {
	if !isAlpha2(code) {
		return Country{}, false
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return Country{}, false
	}

	upper := strings.ToUpper(code)
	if !isCountry(region, upper) {
		return Country{}, false
	}
	name := display.Regions(lang.Tag()).Name(region)
	if name == "" {
		return Country{}, false
	}

	icon := Icon{Label: name}
	asset := "flag-" + strings.ToLower(code)
	if h.assets != nil && h.assets.HasAsset(asset) {
		icon.Asset = asset
	} else {
		icon.Badge = badgeSVG(upper)
	}

	return Country{Code: upper, Name: name, Icon: icon}, true
}

var unknownRegion = language.MustParseRegion("ZZ")

// kosovo is user-assigned in ISO 3166 but in common use as a country code
const kosovo = "XK"

// isCountry rejects the unknown region and user-assigned codes such as XX or AA
func isCountry(region language.Region, upper string) bool {
	if region == unknownRegion {
		return false
	}
	return !region.IsPrivateUse() || upper == kosovo
}

func isAlpha2(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// badgeSVG draws the code in a 26x20 rounded, bordered box
func badgeSVG(code string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="26" height="20" viewBox="0 0 26 20">`+
		`<rect x="0.5" y="0.5" width="25" height="19" rx="3" fill="#ffffff" stroke="#555555" stroke-width="1"/>`+
		`<text x="13" y="14" font-family="sans-serif" font-size="9" font-weight="bold" fill="#555555" text-anchor="middle">%s</text>`+
		`</svg>`, code)
}
