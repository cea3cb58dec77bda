package badge

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

// padding is the horizontal space around each half's text.
const padding = 10

// layout is a measured badge: two halves side by side.
type layout struct {
	label, value string // escaped
	labelW       int
	valueW       int
}

func (e *Engine) measure(b Badge) layout {
	width := func(s string) int { return int(math.Round(e.metrics.TextWidth(s))) + padding }
	return layout{
		label:  xmlEscape(b.Label),
		value:  xmlEscape(b.Value),
		labelW: width(b.Label),
		valueW: width(b.Value),
	}
}

// renderSVG draws a flat badge in the shields.io style, with the font
// embedded so the text renders at the measured widths.
func (e *Engine) renderSVG(b Badge) string {
	l := e.measure(b)
	total := l.labelW + l.valueW
	family := fmt.Sprintf("'%s',Verdana,Geneva,sans-serif", e.metrics.FontName())

	var s strings.Builder
	fmt.Fprintf(&s, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20" role="img" aria-label="%s: %s">`, total, l.label, l.value)
	fmt.Fprintf(&s, `<title>%s: %s</title>`, l.label, l.value)

	s.WriteString(`<defs>`)
	fmt.Fprintf(&s, `<style type="text/css">%s</style>`, fontFaceCSS(e.metrics.FontName(), e.metrics.FontData()))
	s.WriteString(`<linearGradient id="b" x2="0" y2="100%"><stop offset="0" stop-color="#bbb" stop-opacity=".1"/><stop offset="1" stop-opacity=".1"/></linearGradient>`)
	s.WriteString(`</defs>`)

	fmt.Fprintf(&s, `<mask id="a"><rect width="%d" height="20" rx="3" fill="#fff"/></mask>`, total)
	fmt.Fprintf(&s, `<g mask="url(#a)"><rect width="%d" height="20" fill="#555"/><rect x="%d" width="%d" height="20" fill="%s"/><rect width="%d" height="20" fill="url(#b)"/></g>`,
		l.labelW, l.labelW, l.valueW, xmlEscape(b.Color), total)

	fmt.Fprintf(&s, `<g fill="#fff" text-anchor="middle" font-family="%s" font-size="%g">`, xmlEscape(family), e.metrics.FontSize())
	shadowedText(&s, l.labelW/2, l.label)
	shadowedText(&s, l.labelW+l.valueW/2, l.value)
	s.WriteString(`</g></svg>`)
	return s.String()
}

// shadowedText writes text centred on x over a one-pixel drop shadow.
func shadowedText(s *strings.Builder, x int, text string) {
	fmt.Fprintf(s, `<text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text><text x="%d" y="14">%s</text>`, x, text, x, text)
}

// fontFaceCSS embeds font data as a base64 @font-face rule.
func fontFaceCSS(name string, data []byte) string {
	format, css := "ttf", "truetype"
	if len(data) >= 4 && string(data[:4]) == "OTTO" {
		format, css = "otf", "opentype"
	}
	return fmt.Sprintf(`@font-face{font-family:'%s';src:url(data:font/%s;base64,%s) format('%s')}`,
		name, format, base64.StdEncoding.EncodeToString(data), css)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func xmlEscape(s string) string { return xmlEscaper.Replace(s) }
