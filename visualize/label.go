package visualize

import (
	"fmt"
	"strings"

	"github.com/edmallia/MongoDBExplainViz/plangraph"
)

// This file contains logics which purely format labels for each back end.

var hintColors = map[plangraph.Hint]string{
	plangraph.VolumeHint:        "darkgreen",
	plangraph.DocumentsCostHint: "blue",
	plangraph.KeysCostHint:      "red",
	plangraph.TagHint:           "orange",
}

// nodeHTML formats label as a Graphviz HTML-like table: a bold title and one colored row per attribute.
func nodeHTML(label plangraph.Label) string {
	var b strings.Builder
	b.WriteString(`<table border="0" cellborder="0" cellspacing="1">`)
	fmt.Fprintf(&b, `<tr><td align="left">%s</td></tr>`, encloseIfNotEmpty("<b>", escapeGraphvizHTMLLabelContent(label.Title), "</b>"))
	for _, attr := range label.Attributes {
		fmt.Fprintf(&b, `<tr><td align="left">%s</td></tr>`, colored(escapeGraphvizHTMLLabelContent(attr.String()), attr.Hint))
	}
	b.WriteString(`</table>`)
	return b.String()
}

func colored(s string, hint plangraph.Hint) string {
	color, ok := hintColors[hint]
	if !ok {
		return s
	}
	return fmt.Sprintf(`<font color="%s">%s</font>`, color, s)
}

// escapeGraphvizHTMLLabelContent prepares a string for safe inclusion in a Graphviz HTML-like label.
// Note: Graphviz's HTML-like label parsing has its own specific rules that differ from standard
// HTML/XML parsing. See: https://graphviz.org/doc/info/shapes.html#html
func escapeGraphvizHTMLLabelContent(content string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`\`, `\\`,
	)
	return replacer.Replace(content)
}

// mermaidLabel joins the escaped label lines. The root has an empty label and renders as a blank.
func mermaidLabel(label plangraph.Label) string {
	if label.Title == "" && len(label.Attributes) == 0 {
		return " "
	}

	lines := make([]string, 0, len(label.Attributes)+1)
	for _, line := range label.Lines() {
		lines = append(lines, escapeMermaidLabelContent(line))
	}
	return strings.ReplaceAll(strings.Join(lines, "\n"), `"`, "#quot;")
}

// escapeMermaidLabelContent prepares a string for safe inclusion in a Mermaid label when htmlLabels:true is used.
// Note: Mermaid.js always processes Markdown-like syntax features in labels (such as backticks
// for code blocks), regardless of htmlLabels setting.
func escapeMermaidLabelContent(content string) string {
	return mermaidReplacer.Replace(content)
}

var mermaidReplacer = newReplacerForMermaidHTMLLabel()

// newReplacerForMermaidHTMLLabel creates a strings.Replacer for escaping text content in Mermaid diagram labels.
//
// The replacer handles three types of escaping:
//  1. space-to-nbsp conversion
//  2. HTML entity escaping for '<', '>', and '&'
//  3. Mermaid-specific character escaping for special syntax characters
func newReplacerForMermaidHTMLLabel() *strings.Replacer {
	// & is escaped first to prevent double-escaping.
	htmlLikeEscapeChars := []string{
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	}

	// These characters match the marked library's escape constant
	// (https://github.com/markedjs/marked/blob/v15.0.12/src/rules.ts)
	// and are sorted by ASCII code.
	// Note: htmlLikeEscapeChars has higher precedence than this list
	const charsToEscape = `!"#$%&'()*+,-./:;<=>?@[\]^_` + "`" + `{|}~`

	oldNew := []string{" ", "&nbsp;"}
	oldNew = append(oldNew, htmlLikeEscapeChars...)
	for _, r := range charsToEscape {
		oldNew = append(oldNew, string(r), `\`+string(r))
	}
	return strings.NewReplacer(oldNew...)
}
