// Package render turns article markdown into HTML.
package render

import "github.com/russross/blackfriday/v2"

const extensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs | blackfriday.Footnotes

const htmlFlags = blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.Safelink |
	blackfriday.HrefTargetBlank | blackfriday.NofollowLinks | blackfriday.NoreferrerLinks

// Markdown renders src as HTML. Raw HTML embedded in the source is dropped.
// Links with an unsafe scheme such as javascript: or data: lose their href;
// the others open in a new tab.
func Markdown(src string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: htmlFlags})
	return string(blackfriday.Run([]byte(src),
		blackfriday.WithExtensions(extensions),
		blackfriday.WithRenderer(renderer),
	))
}
