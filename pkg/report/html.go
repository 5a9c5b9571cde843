package report

import (
	"bytes"
	"fmt"
	"html/template"
)

// reportTemplate is kept intentionally plain: the email has to survive
// corporate mail clients, so inline styles only, no scripts, no images.
const reportTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.WeekKey}} guest reviews</title></head>
<body style="font-family:Arial,Helvetica,sans-serif;color:#222;max-width:720px;margin:0 auto;">
<h1 style="font-size:20px;">Guest reviews — week {{.WeekKey}}</h1>

<table cellpadding="8" cellspacing="0" style="border-collapse:collapse;width:100%;">
<tr>
{{range .Summaries}}
  <td style="border:1px solid #ddd;vertical-align:top;">
    <div style="font-size:11px;color:#888;text-transform:uppercase;">{{.Label}}</div>
    <div style="font-size:18px;font-weight:bold;">{{.Avg}}{{if .DeltaAvg}} <span style="font-size:12px;color:#666;">({{.DeltaAvg}})</span>{{end}}</div>
    <div style="font-size:12px;">{{.Reviews}} reviews · {{.NegShare}} negative</div>
  </td>
{{end}}
</tr>
</table>

{{if .Sources}}
<h2 style="font-size:16px;">By source</h2>
<table cellpadding="6" cellspacing="0" style="border-collapse:collapse;width:100%;font-size:13px;">
<tr style="background:#f5f5f5;">
  <th align="left" style="border:1px solid #ddd;">Source</th>
  <th align="right" style="border:1px solid #ddd;">Reviews</th>
  <th align="right" style="border:1px solid #ddd;">Rating</th>
  <th align="right" style="border:1px solid #ddd;">Pos</th>
  <th align="right" style="border:1px solid #ddd;">Neg</th>
  <th align="right" style="border:1px solid #ddd;">Mixed</th>
</tr>
{{range .Sources}}
<tr>
  <td style="border:1px solid #ddd;">{{.Name}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Reviews}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Rating}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Positive}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Negative}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Mixed}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Risks}}
<h2 style="font-size:16px;color:#a33;">Top risks</h2>
<table cellpadding="6" cellspacing="0" style="border-collapse:collapse;width:100%;font-size:13px;">
<tr style="background:#f5f5f5;">
  <th align="left" style="border:1px solid #ddd;">Aspect</th>
  <th align="right" style="border:1px solid #ddd;">Mentions</th>
  <th align="right" style="border:1px solid #ddd;">Impact</th>
</tr>
{{range .Risks}}
<tr>
  <td style="border:1px solid #ddd;">{{.AspectCode}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Mentions}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Index}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Drivers}}
<h2 style="font-size:16px;color:#383;">Top drivers</h2>
<table cellpadding="6" cellspacing="0" style="border-collapse:collapse;width:100%;font-size:13px;">
<tr style="background:#f5f5f5;">
  <th align="left" style="border:1px solid #ddd;">Aspect</th>
  <th align="right" style="border:1px solid #ddd;">Mentions</th>
  <th align="right" style="border:1px solid #ddd;">Impact</th>
</tr>
{{range .Drivers}}
<tr>
  <td style="border:1px solid #ddd;">{{.AspectCode}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Mentions}}</td>
  <td align="right" style="border:1px solid #ddd;">{{.Index}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Quotes}}
<h2 style="font-size:16px;">In their words</h2>
{{range .Quotes}}
<blockquote style="margin:8px 0;padding:8px 12px;border-left:3px solid {{if eq .Tone "negative"}}#a33{{else}}#383{{end}};background:#fafafa;font-size:13px;">
  {{.Text}}
  <div style="font-size:11px;color:#888;margin-top:4px;">{{.Source}}</div>
</blockquote>
{{end}}
{{end}}

<p style="font-size:11px;color:#999;">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(reportTemplate))

// RenderHTML renders the weekly digest as a standalone HTML document.
func RenderHTML(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}
