package preview

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageCSS = `body{font-family:"Songti SC","SimSun","Noto Serif CJK SC",serif;font-size:12pt;line-height:1.9;color:#1c1917;max-width:760px;margin:0 auto;padding:2rem 1.5rem;} ` +
	`h1{font-size:18pt;text-align:center;font-weight:700;margin:0 0 1.6rem;} ` +
	`h2{font-size:14pt;font-weight:700;margin:1.6rem 0 0.6rem;border-bottom:1px solid #d6d3d1;padding-bottom:0.25rem;} ` +
	`p{margin:0 0 0.8rem;text-align:justify;} ` +
	`table{width:100%;border-collapse:collapse;font-size:10.5pt;} ` +
	`th,td{border:1px solid #a8a29e;padding:0.3rem 0.45rem;text-align:left;vertical-align:top;} ` +
	`@media print{ @page{size:A4;margin:18mm 16mm;} body{max-width:none;padding:0;} h2{break-after:avoid;} }`

// RenderHTML converts draft markdown into a standalone print-styled HTML
// page. Raw HTML in the input is not passed through.
func RenderHTML(markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>专利申请预览</title>" +
		"<style>" + pageCSS + "</style></head><body>" +
		"<main class='draft'>" + content.String() + "</main>" +
		"</body></html>", nil
}
