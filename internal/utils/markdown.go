package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	htmlPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func init() {
	htmlPolicy.RequireNoReferrerOnLinks(true)
	htmlPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

// RenderMarkdown converts a story description to sanitized HTML for the
// admin panel display.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source)) // Fallback
	}
	return template.HTML(htmlPolicy.SanitizeBytes(buf.Bytes()))
}

// SanitizeText strips all HTML from submitted text before it is stored.
func SanitizeText(s string) string {
	return plainPolicy.Sanitize(s)
}
