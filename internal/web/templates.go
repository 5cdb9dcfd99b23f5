package web

import "html/template"

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>ZenThera — AI Compliance Dashboard</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
    header { background: #1f2430; color: #fff; padding: 24px 32px; }
    header p { margin: 4px 0 0; opacity: 0.8; }
    main { padding: 24px 32px; max-width: 960px; }
    .banner { background: #2f6fed; color: #fff; border-radius: 8px; padding: 16px 20px; display: flex; justify-content: space-between; align-items: center; }
    .card { background: #fff; border-radius: 8px; padding: 20px; margin-top: 20px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
    .score { font-size: 42px; font-weight: 700; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    td { padding: 10px 4px; border-bottom: 1px solid #e8eaef; }
    td.score-cell { text-align: right; font-weight: 600; }
    .compliant { color: #1d8a4e; }
    .needs_attention { color: #c77b14; }
    .status-active { color: #1d8a4e; font-weight: 600; }
    .status-planned { color: #8a8f9c; }
    ul { list-style: none; padding: 0; margin: 8px 0 0; }
    li { padding: 8px 0; border-bottom: 1px solid #e8eaef; display: flex; justify-content: space-between; }
  </style>
</head>
<body>
  <header>
    <h1>AI Compliance Dashboard</h1>
    <p>Monitor your AI systems compliance and governance in real-time</p>
  </header>
  <main>
    <div class="banner">
      <strong>{{.ActiveFeatures}}/{{.TotalFeatures}} Features Active</strong>
      <span>{{.ActivePercent}}%</span>
    </div>
    <div class="card">
      <h3>Compliance Overview</h3>
      <div class="score">{{.OverallScore}}%</div>
      <div>Overall Compliance Score</div>
      <table>
        {{range .Frameworks}}
        <tr>
          <td>{{.Name}}</td>
          <td class="score-cell {{.Status}}">{{.Score}}%</td>
        </tr>
        {{end}}
      </table>
    </div>
    <div class="card">
      <h3>Platform Features</h3>
      <ul>
        {{range .Features}}
        <li><span>{{.Name}}</span><span class="status-{{.Status}}">{{.Status}}</span></li>
        {{end}}
      </ul>
    </div>
    <div class="card">
      <h3>System Status</h3>
      <p>{{.ServiceName}} v{{.ServiceVersion}} — {{.TotalEndpoints}} API endpoints registered.</p>
    </div>
  </main>
</body>
</html>
`))

var featuresTemplate = template.Must(template.New("features").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>ZenThera — Features</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
    header { background: #1f2430; color: #fff; padding: 24px 32px; }
    main { padding: 24px 32px; max-width: 960px; }
    .card { background: #fff; border-radius: 8px; padding: 20px; margin-top: 20px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
    .status-active { color: #1d8a4e; font-weight: 600; }
    .status-planned { color: #8a8f9c; }
    .endpoints { color: #8a8f9c; font-size: 14px; }
  </style>
</head>
<body>
  <header>
    <h1>Platform Features</h1>
  </header>
  <main>
    {{range .Features}}
    <div class="card">
      <h3>{{.Name}} <span class="status-{{.Status}}">{{.Status}}</span></h3>
      <p>{{.Description}}</p>
      <p class="endpoints">{{.Endpoints}} endpoints</p>
    </div>
    {{end}}
  </main>
</body>
</html>
`))
