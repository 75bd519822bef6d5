package dashboard

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#f8fafc;color:#0f172a;font-size:14px;line-height:1.5}
nav{background:#0f172a;padding:8px 16px;display:flex;gap:16px;align-items:center}
nav .brand{color:#f8fafc;font-weight:700}
nav a{color:#cbd5e1;text-decoration:none}
main{padding:16px;max-width:1040px;margin:0 auto}
h1{font-size:22px;margin-bottom:8px}
h2{font-size:15px;margin:20px 0 8px}
hr{border:none;border-top:1px solid #e2e8f0;margin:16px 0}
table{width:100%;border-collapse:collapse;font-size:12px}
th,td{text-align:left;padding:4px 8px;border-bottom:1px solid #e2e8f0}
.scroll{max-height:360px;overflow:auto;border:1px solid #e2e8f0}
.notice{padding:8px 12px;border-radius:4px;margin:8px 0}
.notice.warning{background:#fef3c7;color:#92400e}
.notice.info{background:#e0f2fe;color:#075985}
.notice.success{background:#dcfce7;color:#166534}
.notice.error{background:#fee2e2;color:#991b1b}
.dim{color:#64748b}
form.inline{display:flex;gap:12px;align-items:center;flex-wrap:wrap}
img.chart{max-width:100%;border:1px solid #e2e8f0;background:#fff}
</style>
</head>
<body>
<nav><span class="brand">Pickups</span><a href="/">Dashboard</a><a href="/explore">Explore CSV</a></nav>
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}
`

const tmplDashboard = `
{{define "content"}}
<h1>{{.Title}}</h1>
{{if .Error}}
<div class="notice error">{{.Error}}</div>
{{else}}{{with .Page}}
<p class="dim">{{.Status}}</p>

<form class="inline" method="get" action="/">
  <label><input type="checkbox" name="raw" value="true" {{if .Raw}}checked{{end}}> Show raw data</label>
  <label>Choose a date <input type="date" name="date" value="{{.Filter.Date}}" min="{{.Filter.MinDate}}" max="{{.Filter.MaxDate}}"></label>
  <label>Select hour <input type="range" name="hour" min="{{.Filter.MinHour}}" max="{{.Filter.MaxHour}}" value="{{.Filter.Hour}}"> {{.Filter.Hour}}</label>
  <button type="submit">Apply</button>
</form>

{{with .Raw}}
<h2>Raw data</h2>
<p class="dim">{{len .Rows}} of {{.Total}} rows</p>
<div class="scroll"><table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table></div>
{{end}}
<hr>

<h2>{{.Histogram.Title}}</h2>
<img class="chart" src="/charts/pickups-by-hour.png" alt="{{.Histogram.Title}}">
<hr>

<h2>{{.PointMap.Title}}</h2>
{{with .PointMap.Notice}}<div class="notice {{.Level}}">{{.Text}}</div>{{else}}
<p class="dim">{{len .PointMap.Points}} pickups between {{printf "%.4f" .PointMap.Bounds.MinLat}},{{printf "%.4f" .PointMap.Bounds.MinLon}} and {{printf "%.4f" .PointMap.Bounds.MaxLat}},{{printf "%.4f" .PointMap.Bounds.MaxLon}}</p>
<script type="application/json" id="point-map">{{.PointMap}}</script>
{{end}}
<hr>

<h2>{{.HexMap.Title}}</h2>
{{with .HexMap.Notice}}<div class="notice {{.Level}}">{{.Text}}</div>{{else}}
<p class="dim">View centered on {{printf "%.4f" .HexMap.View.Latitude}},{{printf "%.4f" .HexMap.View.Longitude}} (zoom {{.HexMap.View.Zoom}}, pitch {{.HexMap.View.Pitch}})</p>
<script type="application/json" id="hex-map">{{.HexMap}}</script>
{{end}}
<hr>

<h2>Page Run Counter</h2>
<form method="post" action="{{$.CounterAction}}">
  <button type="submit">Click to increase counter</button>
</form>
<div class="notice success">{{.Counter.Text}}</div>
{{end}}{{end}}
{{end}}
`

const tmplExplore = `
{{define "content"}}
<h1>{{.Title}}</h1>
{{if .Error}}<div class="notice error">{{.Error}}</div>{{end}}
<form class="inline" method="post" action="/explore/upload" enctype="multipart/form-data">
  <input type="file" name="file" accept=".csv,.gz,text/csv">
  <button type="submit">Upload</button>
</form>
{{with .Page}}
{{with .Notice}}<div class="notice {{.Level}}">{{.Text}}</div>{{end}}
{{if .Columns}}
<p class="dim">{{.Dataset}}: {{.Rows}} rows</p>
<form class="inline" method="get" action="/explore">
  <label>Column <select name="column">
  {{$sel := .Selected}}{{range .Columns}}<option value="{{.}}" {{if eq . $sel}}selected{{end}}>{{.}}</option>{{end}}
  </select></label>
  <button type="submit">Show</button>
</form>
{{end}}
{{with .Chart}}
<h2>{{.Title}}</h2>
<img class="chart" src="/charts/explore.png?column={{$.Page.Selected}}" alt="{{.Title}}">
{{end}}
{{if .Counts}}
<table>
<tr><th>{{.Selected}}</th><th>rows</th></tr>
{{range .Counts}}<tr><td>{{.Value}}</td><td>{{.Count}}</td></tr>{{end}}
</table>
{{end}}
{{end}}
{{end}}
`
