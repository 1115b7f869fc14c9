// Package export renders a generated document as a standalone HTML page
// or as Markdown for downstream editing.
package export

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"pddgen/internal/pdd"
)

var pageTemplate = template.Must(template.New("pdd").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
h1 { border-bottom: 2px solid #1a1a2e; padding-bottom: .5rem; }
h2 { margin-top: 2rem; color: #16213e; }
.mermaid { margin: 1.5rem 0; }
</style>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<h2>{{.Name}}</h2>
{{.Content}}
{{if .Diagram}}<pre class="mermaid">
{{.Diagram}}</pre>
{{end}}{{end}}</body>
</html>
`))

type pageSection struct {
	Name    string
	Content template.HTML
	Diagram string
}

type pageData struct {
	Title    string
	Sections []pageSection
}

// HTML renders the document as a self-contained page. The diagram, when
// present, is placed directly after its anchor section, or after the last
// section when no anchor is designated.
func HTML(res *pdd.GenerationResult) (string, error) {
	data := pageData{Title: res.ProcessName}
	for _, sec := range res.Sections {
		data.Sections = append(data.Sections, pageSection{
			Name: sec.Name,
			// Section content was sanitized at generation time.
			Content: template.HTML(sec.Content),
		})
	}
	if res.DiagramCode != "" && len(data.Sections) > 0 {
		at := len(data.Sections) - 1
		for i, sec := range data.Sections {
			if sec.Name == res.AnchorSection {
				at = i
				break
			}
		}
		data.Sections[at].Diagram = res.DiagramCode
	}

	var sb strings.Builder
	if err := pageTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return sb.String(), nil
}

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// Markdown renders the document as Markdown. Section bodies are converted
// from their markup form and the diagram becomes a fenced mermaid block.
func Markdown(res *pdd.GenerationResult) (string, error) {
	var sb strings.Builder
	sb.WriteString("# " + res.ProcessName + "\n")
	diagramDone := res.DiagramCode == ""
	for _, sec := range res.Sections {
		sb.WriteString("\n## " + sec.Name + "\n\n")
		body, err := mdConverter.ConvertString(sec.Content)
		if err != nil {
			return "", fmt.Errorf("convert section %q: %w", sec.Name, err)
		}
		sb.WriteString(strings.TrimSpace(body))
		sb.WriteByte('\n')
		if !diagramDone && sec.Name == res.AnchorSection {
			writeDiagram(&sb, res.DiagramCode)
			diagramDone = true
		}
	}
	if !diagramDone {
		writeDiagram(&sb, res.DiagramCode)
	}
	return sb.String(), nil
}

func writeDiagram(sb *strings.Builder, code string) {
	sb.WriteString("\n```mermaid\n")
	sb.WriteString(strings.TrimSpace(code))
	sb.WriteString("\n```\n")
}
