package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// clicklar-devapi operational monitoring.
func AlertRules() PrometheusRule {
	return newRuleSet("clicklar-alerts",
		RuleGroup{
			Name: "clicklar-alerts",
			Rules: []Rule{
				{
					Alert: "ClicklarDevAPIDown",
					Expr:  `absent(up{job="clicklar-devapi"})`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Clicklar dev API is down",
						"description": "The clicklar-devapi job has been absent for more than 2 minutes.",
					},
				},
				{
					Alert: "ClicklarReadinessDown",
					Expr:  `clicklar_readyz_up{job="clicklar-devapi"} == 0`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Clicklar dev API readiness check is failing",
						"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
					},
				},
				{
					Alert: "ClicklarHighErrorRate",
					Expr:  `clicklar:http_errors:rate5m / clicklar:http_requests:rate5m > 0.05`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "High HTTP error rate on the clicklar dev API",
						"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
					},
				},
				{
					Alert: "ClicklarHighLatency",
					Expr:  `clicklar:http_request_duration:p95_5m > 1`,
					For:   "10m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Clicklar dev API is slow",
						"description": "The 95th percentile request latency has been above 1s for 10 minutes.",
					},
				},
			},
		},
	)
}
