// Package templates はダッシュボードのHTMLと init で書き出す設定ファイルの雛形を保持する。
package templates

// Dashboard はダッシュボードページの html/template
const Dashboard = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.T "dashboard"}}</title>
<style>
body { font-family: "Hiragino Sans", "Noto Sans JP", sans-serif; margin: 0; background: #f5f6f8; color: #333; }
header { background: #2c3e50; color: #fff; padding: 12px 24px; display: flex; justify-content: space-between; align-items: center; }
header a { color: #fff; margin-left: 12px; }
main { display: flex; flex-wrap: wrap; gap: 24px; padding: 24px; }
section { background: #fff; border-radius: 6px; box-shadow: 0 1px 3px rgba(0,0,0,.1); padding: 16px; }
h2 { font-size: 16px; margin: 0 0 12px; }
.error { background: #fdecea; color: #b71c1c; border: 1px solid #f5c6cb; border-radius: 4px; padding: 12px; }
.error ul { margin: 8px 0 0; padding-left: 20px; }
table { border-collapse: collapse; font-size: 12px; margin-top: 12px; }
th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
footer { padding: 0 24px 24px; font-size: 12px; color: #777; }
</style>
</head>
<body>
<header>
  <strong>{{.T "dashboard"}}</strong>
  <span>{{.T "language"}}: <a href="?lang=ja">日本語</a><a href="?lang=en">English</a> <a href="">{{.T "refresh"}}</a></span>
</header>
<main>
  <section id="pie_graph">
    <h2>{{.T "pie_chart"}}</h2>
    {{with .PieError}}
    <div class="error"><strong>{{$.T "load_failed"}}</strong>: {{.Message}}
      {{if .Suggestions}}<ul>{{range .Suggestions}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
    {{else}}
    <img src="/charts/pie.svg?lang={{.Lang}}" width="{{.PieWidth}}" height="{{.PieHeight}}" alt="{{.T "pie_chart"}}">
    <table>
      <tr><th>{{.T "category"}}</th><th>{{.T "value"}}</th><th>{{.T "percentage"}}</th></tr>
      {{range .Pie.Slices}}<tr><td>{{.Label}}</td><td>{{.Value}}</td><td>{{printf "%.1f" .Percentage}}%</td></tr>{{end}}
    </table>
    {{end}}
  </section>
  <section id="chart">
    <h2>{{.T "accident_chart"}}</h2>
    {{with .AccidentError}}
    <div class="error"><strong>{{$.T "load_failed"}}</strong>: {{.Message}}
      {{if .Suggestions}}<ul>{{range .Suggestions}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
    {{else}}
    <img src="/charts/accidents.svg?lang={{.Lang}}" width="{{.AccidentWidth}}" height="{{.AccidentHeight}}" alt="{{.T "accident_chart"}}">
    <table>
      <tr><th>{{.T "day"}}</th>{{range .BucketLabels}}<th>{{.}}</th>{{end}}<th>{{.T "total"}}</th></tr>
      {{range .Rows}}<tr><td>{{.Label}}</td>{{range .Counts}}<td>{{.}}</td>{{end}}<td>{{.Total}}</td></tr>{{end}}
    </table>
    {{end}}
  </section>
</main>
<footer>{{.T "generated_at"}}: {{.GeneratedAt}} <span id="status"></span></footer>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (e) {
    var ev = JSON.parse(e.data);
    if (ev.type === "data_updated") {
      document.getElementById("status").textContent = "{{.T "data_updated"}}";
      setTimeout(function () { location.reload(); }, 500);
    }
  };
})();
</script>
</body>
</html>
`

// DefaultEnv は init が書き出す .env の雛形
const DefaultEnv = `# accident-charts settings
ACHART_ENV=development
ACHART_ADDRESS=:8080
ACHART_LANG=ja
ACHART_PIE_SOURCE=./data/data.csv
ACHART_ACCIDENT_SOURCE=./data/accident_data_d3.json
ACHART_PIE_KEY_COLUMN=key
ACHART_PIE_VALUE_COLUMN=val
ACHART_FETCH_TIMEOUT=10s
ACHART_FETCH_ATTEMPTS=1
ACHART_CACHE_TTL=1m
ACHART_WATCH=true
# ACHART_FONT_PATH=/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttf
ACHART_PROFILE_PATH=charts.yaml
ACHART_DUCKDB_PATH=achart.duckdb
ACHART_USE_STORE=false
`
