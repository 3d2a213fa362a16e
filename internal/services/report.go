package services

import (
    "html/template"
    "strconv"
    "strings"

    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

var reportTmpl = template.Must(template.New("conflicts").Funcs(template.FuncMap{
    "hours": hoursCell,
}).Parse(`<html>
<head>
    <style>
        .g-table {
        border: solid 3px #DDEEEE;
        border-collapse: collapse;
        border-spacing: 0;
        font: normal 14px Roboto, sans-serif;
        }

        .g-table th {
        background-color: #DDEFEF;
        border: solid 1px #DDEEEE;
        color: #336B5B;
        min-width: 72px;
        padding: 10px;
        text-align: left;
        text-shadow: 1px 1px 1px #fff;
        }

        .g-table td {
        border: solid 1px #DDEEEE;
        color: #333;
        padding: 10px;
        }
    </style>
</head>
<body>
<h3>Absence worklog conflicts</h3>
{{- if not . }}
<p>No conflicts today!</p>
{{- else }}
<table class="g-table">
<tr>
    <th>Employee</th>
    <th>Date</th>
    <th>Amount</th>
</tr>
{{- range $c := . }}
{{- range $c.Entries }}
<tr>
    <td>{{ $c.Email }}</td>
    <td>{{ .Date }}</td>
    <td>{{ hours .Hours }}</td>
</tr>
{{- end }}
{{- end }}
</table>
{{- end }}
</body>
</html>
`))

// hoursCell renders amounts the way floats print elsewhere in the report
// pipeline: whole hours keep a trailing ".0" (8 -> "8.0", 2.5 -> "2.5").
func hoursCell(h float64) string {
    s := strconv.FormatFloat(h, 'f', -1, 64)
    if !strings.Contains(s, ".") { s += ".0" }
    return s
}

func renderConflictReport(conflicts []domain.Conflict) (string, error) {
    var b strings.Builder
    if err := reportTmpl.Execute(&b, conflicts); err != nil { return "", err }
    return b.String(), nil
}
