package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/clicklar/tools/dashgen/rules"
)

var known = map[string]bool{
	"http_requests_total":           true,
	"http_request_duration_seconds": true,
	"app:http_requests:rate5m":      true,
}

func TestExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{name: "known counter", expr: `sum(rate(http_requests_total{job="x"}[5m]))`},
		{
			name: "histogram bucket",
			expr: `histogram_quantile(0.95, sum(rate(http_request_duration_seconds_bucket[5m])) by (le))`,
		},
		{name: "recording rule", expr: `app:http_requests:rate5m * 100`},
		{name: "unknown metric", expr: `rate(ghost_total[5m])`, wantErr: `unknown metric "ghost_total"`},
		{name: "unknown suffix base", expr: `ghost_bucket`, wantErr: "unknown metric"},
		{name: "parse error", expr: `sum(rate(http_requests_total[5m])`, wantErr: "query A"},
		{name: "empty", expr: "  ", wantErr: "empty expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var r Result
			r.expr("query A", tt.expr, known)
			if tt.wantErr == "" {
				assert.True(t, r.Ok(), "errors: %v", r.Errors)
				return
			}
			assert.False(t, r.Ok())
			assert.Contains(t, r.Errors[0], tt.wantErr)
		})
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{{
		Name: "g",
		Rules: []rules.Rule{
			{Record: "app:http_requests:rate5m", Expr: `sum(rate(http_requests_total[5m]))`},
			{Record: "app:unlisted:rate5m", Expr: `sum(rate(http_requests_total[5m]))`},
			{Alert: "Slow", Expr: `app:http_requests:rate5m > 1`},
		},
	}}}}

	r := Rules(cr, known)
	assert.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0], "app:unlisted:rate5m")
}

func TestPanelWarnings(t *testing.T) {
	t.Parallel()

	var r Result
	r.panel(panel{Type: "row", Panels: []panel{
		{Type: "stat", Title: "Empty"},
		{Type: "stat", Title: "Rate", Targets: []target{{Expr: "http_requests_total", RefID: "A"}}},
	}}, known)

	assert.True(t, r.Ok(), "errors: %v", r.Errors)
	assert.Equal(t, []string{`panel "Empty" has no queries`}, r.Warnings)
}
