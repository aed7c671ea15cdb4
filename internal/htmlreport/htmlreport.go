// Package htmlreport writes a dashboard as a standalone HTML page rendered client-side
// by Mermaid.
package htmlreport

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scenario-mcp/internal/report"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/browser"
)

// MermaidURL is the client-side renderer the page loads.
const MermaidURL = "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"

// bootstrapScript starts Mermaid once the page is loaded and adds a copy button to every
// diagram so the source can be pasted into a Markdown document.
const bootstrapScript = `
document.addEventListener("DOMContentLoaded", function () {
  var diagrams = document.querySelectorAll("pre.mermaid");
  diagrams.forEach(function (diagram) {
    var source = diagram.textContent;
    var button = document.createElement("button");
    button.className = "copy";
    button.textContent = "Copy source";
    button.addEventListener("click", function () {
      navigator.clipboard.writeText("` + "```mermaid\\n" + `" + source.trim() + "\\n` + "```" + `");
      button.textContent = "Copied";
    });
    diagram.parentNode.insertBefore(button, diagram.nextSibling);
  });
  if (window.mermaid) {
    window.mermaid.initialize({ startOnLoad: false, theme: "neutral" });
    window.mermaid.run({ nodes: diagrams });
  }
});
`

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
table { border-collapse: collapse; margin-bottom: 1rem; }
td, th { border: 1px solid #ccc; padding: 0.25rem 0.75rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.placeholder { color: #666; font-style: italic; }
button.copy { font-size: 0.75rem; }
</style>
<script src="{{.MermaidURL}}"></script>
<script>{{.Script}}</script>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.Generated}}. LTV cap {{printf "%.2f" .Dashboard.LTVCap}}.</p>
{{with .Dashboard.Comparison}}
<h2>{{.Label}} vs baseline</h2>
<table>
<tr><th>Metric</th><th>Relative</th><th>Absolute</th></tr>
<tr><td>NAV</td><td>{{printf "%+.2f%%" .Relative.NAV}}</td><td>{{printf "%+.2f" .Absolute.NAV}}</td></tr>
<tr><td>Dilution reduction</td><td>{{printf "%+.2f%%" .Relative.Dilution}}</td><td>{{printf "%+.4f" .Absolute.Dilution}}</td></tr>
<tr><td>ROE</td><td>{{printf "%+.2f%%" .Relative.ROE}}</td><td>{{printf "%+.4f" .Absolute.ROE}}</td></tr>
</table>
{{end}}
{{if .Dashboard.Shortlist.Candidates}}
<h2>Shortlist</h2>
<table>
<tr><th>Structure</th><th>#</th><th>Score</th><th>Rank</th><th>Reason</th></tr>
{{range .Dashboard.Shortlist.Candidates}}<tr><td>{{.Structure}}</td><td>{{.OriginalIndex}}</td><td>{{printf "%.3f" .Score}}</td><td>{{.Rank}}</td><td>{{.Reason}}</td></tr>
{{end}}</table>
{{end}}
{{range .Charts}}
<section id="{{.ID}}">
<h2>{{.Title}}</h2>
{{if .Diagram}}<pre class="mermaid">{{.Diagram}}</pre>{{else}}<p class="placeholder">{{.Placeholder}}</p>{{end}}
</section>
{{end}}
</body>
</html>
`))

type chartView struct {
	ID          string
	Title       string
	Diagram     string
	Placeholder string
}

type pageView struct {
	Title      string
	Generated  string
	MermaidURL string
	Script     template.JS
	Dashboard  *report.Dashboard
	Charts     []chartView
}

// Minify shrinks a script with esbuild.
func Minify(code string) (string, error) {
	result := api.Transform(code, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			msgs[i] = e.Text
		}
		return "", fmt.Errorf("minify: %s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}

// Render produces the HTML page for d.
func Render(d *report.Dashboard, title string, generated time.Time) ([]byte, error) {
	if d == nil {
		return nil, errors.New("htmlreport: nil dashboard")
	}
	script, err := Minify(bootstrapScript)
	if err != nil {
		return nil, err
	}

	view := pageView{
		Title:      title,
		Generated:  generated.Format(time.RFC3339),
		MermaidURL: MermaidURL,
		Script:     template.JS(script),
		Dashboard:  d,
	}
	for _, c := range d.Charts() {
		cv := chartView{ID: c.ID, Title: c.Title}
		if body, ok := diagramBody(c.Mermaid); ok {
			cv.Diagram = body
		} else {
			cv.Placeholder = strings.TrimPrefix(c.Mermaid, "> ")
		}
		view.Charts = append(view.Charts, cv)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// diagramBody strips the Markdown fence from a Mermaid block.
func diagramBody(block string) (string, bool) {
	const open, end = "```mermaid\n", "```"
	if !strings.HasPrefix(block, open) || !strings.HasSuffix(block, end) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(block, open), end), true
}

// Write renders d into dir and returns the file path.
func Write(dir string, d *report.Dashboard, generated time.Time) (string, error) {
	data, err := Render(d, "Scenario Report", generated)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("scenario-report-%s.html", generated.Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Open shows a written report in the default browser.
func Open(path string) error {
	return browser.OpenFile(path)
}
