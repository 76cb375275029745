package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newRuleSet("clicklar-recording-rules",
		RuleGroup{
			Name:     "clicklar-recording",
			Interval: "1m",
			Rules: []Rule{
				{
					Record: "clicklar:http_requests:rate5m",
					Expr:   `sum(rate(clicklar_http_requests_total{job="clicklar-devapi"}[5m]))`,
				},
				{
					Record: "clicklar:http_errors:rate5m",
					Expr:   `sum(rate(clicklar_http_requests_total{job="clicklar-devapi",status=~"5.."}[5m]))`,
				},
				{
					Record: "clicklar:http_client_errors:rate5m",
					Expr:   `sum(rate(clicklar_http_requests_total{job="clicklar-devapi",status=~"4.."}[5m]))`,
				},
				{
					Record: "clicklar:http_request_duration:p95_5m",
					Expr:   `histogram_quantile(0.95, sum(rate(clicklar_http_request_duration_seconds_bucket{job="clicklar-devapi"}[5m])) by (le))`,
				},
			},
		},
	)
}
