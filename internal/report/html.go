package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var page = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Portfolio Dashboard</title>
<style>
body { font-family: sans-serif; max-width: 1100px; margin: 2em auto; padding: 0 1em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { padding: 4px 10px; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
{{.}}
</body>
</html>
`))

// HTML renders the snapshot as a standalone HTML page with colored signed values.
func HTML(snap model.PortfolioSnapshot, opts Options) ([]byte, error) {
	opts.Color = true

	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(snap, opts)), &body); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	var out bytes.Buffer
	if err := page.Execute(&out, template.HTML(body.String())); err != nil { //nolint:gosec // body is generated from snapshot data
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return out.Bytes(), nil
}
