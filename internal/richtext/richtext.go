// Package richtext flattens stored editor documents into markdown.
//
// Message content is persisted as the editor's JSON document. The summarizer
// needs plain markdown, so this package walks the node tree and renders the
// subset of node types the editor produces. Content that is not valid JSON is
// treated as plain text and returned as-is.
package richtext

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

type node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text"`
	Marks   []mark         `json:"marks"`
	Attrs   map[string]any `json:"attrs"`
	Content []node         `json:"content"`
}

type mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs"`
}

var (
	trailingSpaceRe = regexp.MustCompile(`(?m) +$`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// ToMarkdown renders an editor JSON document as markdown. Unknown node types
// contribute their children's text so new editor extensions degrade to plain
// text instead of dropping content.
func ToMarkdown(content string) string {
	var doc node
	if err := json.Unmarshal([]byte(content), &doc); err != nil || doc.Type == "" {
		return strings.TrimSpace(content)
	}

	var b strings.Builder
	renderBlocks(&b, doc.Content, "")
	return normalizeWhitespace(b.String())
}

func normalizeWhitespace(markdown string) string {
	markdown = trailingSpaceRe.ReplaceAllString(markdown, "")
	markdown = blankRunRe.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

func renderBlocks(b *strings.Builder, blocks []node, indent string) {
	for _, block := range blocks {
		renderBlock(b, block, indent)
	}
}

func renderBlock(b *strings.Builder, n node, indent string) {
	switch n.Type {
	case "paragraph":
		b.WriteString(indent)
		b.WriteString(renderInline(n.Content))
		b.WriteString("\n\n")
	case "heading":
		level := 1
		if v, ok := n.Attrs["level"].(float64); ok && v >= 1 && v <= 6 {
			level = int(v)
		}
		b.WriteString(indent)
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		b.WriteString(renderInline(n.Content))
		b.WriteString("\n\n")
	case "bulletList":
		for _, item := range n.Content {
			b.WriteString(indent)
			b.WriteString("- ")
			b.WriteString(renderListItem(item, indent+"  "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	case "orderedList":
		start := 1
		if v, ok := n.Attrs["start"].(float64); ok {
			start = int(v)
		}
		for i, item := range n.Content {
			b.WriteString(indent)
			fmt.Fprintf(b, "%d. ", start+i)
			b.WriteString(renderListItem(item, indent+"   "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	case "codeBlock":
		lang := ""
		if v, ok := n.Attrs["language"].(string); ok {
			lang = v
		}
		b.WriteString(indent)
		b.WriteString("```")
		b.WriteString(lang)
		b.WriteString("\n")
		b.WriteString(inlineText(n.Content))
		b.WriteString("\n```\n\n")
	case "blockquote":
		var inner strings.Builder
		renderBlocks(&inner, n.Content, "")
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			b.WriteString(indent)
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	case "horizontalRule":
		b.WriteString(indent)
		b.WriteString("---\n\n")
	default:
		if len(n.Content) > 0 {
			renderBlocks(b, n.Content, indent)
		}
	}
}

// renderListItem renders a list item's blocks on one logical line, with
// continuation blocks indented under the marker.
func renderListItem(item node, indent string) string {
	var inner strings.Builder
	renderBlocks(&inner, item.Content, "")
	lines := strings.Split(strings.TrimRight(inner.String(), "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func renderInline(nodes []node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Type {
		case "text":
			b.WriteString(applyMarks(n.Text, n.Marks))
		case "hardBreak":
			b.WriteString("\n")
		case "mention":
			if label, ok := n.Attrs["label"].(string); ok {
				b.WriteString("@" + label)
			}
		default:
			b.WriteString(renderInline(n.Content))
		}
	}
	return b.String()
}

func applyMarks(text string, marks []mark) string {
	for _, m := range marks {
		switch m.Type {
		case "bold":
			text = "**" + text + "**"
		case "italic":
			text = "_" + text + "_"
		case "strike":
			text = "~~" + text + "~~"
		case "code":
			text = "`" + text + "`"
		case "link":
			if href, ok := m.Attrs["href"].(string); ok && href != "" {
				text = "[" + text + "](" + href + ")"
			}
		}
	}
	return text
}

func inlineText(nodes []node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Type == "text" {
			b.WriteString(n.Text)
			continue
		}
		b.WriteString(inlineText(n.Content))
	}
	return b.String()
}
