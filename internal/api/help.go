package api

import (
	"bytes"
	"html/template"
	"net/http"

	"CrimeStats/internal/taxonomy"

	"github.com/gin-gonic/gin"
)

// route 帮助页中的一条接口说明
type route struct {
	Method string
	Path   string
	Params string
	Desc   string
}

var routes = []route{
	{"GET", "/api/types", "", "全部犯罪类别，为空时 404"},
	{"GET", "/api/dates", "", "全部案发月份（YYYY-MM），为空时 404"},
	{"GET", "/api/areas", "", "全部辖区，为空时 404"},
	{"GET", "/api/crimes", "start_month, end_month, area, type", "按条件查询案件，月份升序；无结果 404，月份格式错误 400"},
	{"GET", "/api/raw", "", "以 CSV 附件 crimes.csv 导出全部案件"},
	{"GET", "/api/charts/filtered", "start_month, end_month, areas, types", "按月、年龄段、性别统计；areas/types 为逗号分隔列表"},
	{"GET", "/api/help", "", "本页"},
	{"GET", "/healthz", "", "存活检查"},
	{"GET", "/readyz", "", "数据库就绪检查"},
	{"GET", "/metrics", "", "Prometheus 指标"},
}

var helpTemplate = template.Must(template.New("help").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>CrimeStats API</title></head>
<body>
<h1>CrimeStats API</h1>
<table border="1" cellpadding="4">
<tr><th>Method</th><th>Path</th><th>Params</th><th>Description</th></tr>
{{range .Routes}}<tr><td>{{.Method}}</td><td><code>{{.Path}}</code></td><td>{{.Params}}</td><td>{{.Desc}}</td></tr>
{{end}}</table>
<h2>Categories</h2>
<ul>
{{range .Categories}}<li>{{.}}</li>
{{end}}</ul>
<p>Errors are returned as <code>{"error": "..."}</code> with status 400, 404 or 500.</p>
</body>
</html>
`))

// Help 接口说明页
// GET /api/help
func Help(c *gin.Context) {
	var buf bytes.Buffer
	err := helpTemplate.Execute(&buf, struct {
		Routes     []route
		Categories []string
	}{routes, taxonomy.Categories()})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
