// pkg/render/fonts.go
package render

import (
	"sync"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
)

// titleFont is Liberation Sans Bold registered as a variant of its own with
// normal weight. vgpdf embeds every face without a style and then asks fpdf
// for the "B" style of bold weights, which fpdf cannot find.
var titleFont = font.Font{Typeface: typeface, Variant: variant + "Bold"}

var registerTitleFontOnce sync.Once

// registerTitleFont adds titleFont to the default font cache
func registerTitleFont() {
	registerTitleFontOnce.Do(func() {
		for _, f := range liberation.Collection() {
			if f.Font.Variant == variant && f.Font.Weight == xfont.WeightBold && f.Font.Style == xfont.StyleNormal {
				font.DefaultCache.Add(font.Collection{{Font: titleFont, Face: f.Face}})
				return
			}
		}
	})
}
