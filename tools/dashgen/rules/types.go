// Package rules builds the clicklar-devapi Prometheus recording and alert
// rules, packaged as Prometheus Operator PrometheusRule resources.
package rules

// Resource identity shared by every clicklar rule set.
const (
	APIVersion = "monitoring.coreos.com/v1"
	Kind       = "PrometheusRule"

	// RuleSelector is the label value the Prometheus instance selects
	// rule resources by.
	RuleSelector = "system-rules-prometheus"
	PartOf       = "clicklar"
)

// PrometheusRule is one generated rule resource, written to
// prometheus/<metadata.name>.yaml.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

// PrometheusRuleMetadata names the resource and carries the selector labels.
type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// PrometheusRuleSpec holds the rule groups.
type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is evaluated as a unit. An empty Interval uses the
// Prometheus global evaluation interval.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule sets exactly one of Record (clicklar:* series feeding the dashboard)
// or Alert (Clicklar* alerts on the dev API).
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

func newRuleSet(name string, groups ...RuleGroup) PrometheusRule {
	return PrometheusRule{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata: PrometheusRuleMetadata{
			Name: name,
			Labels: map[string]string{
				"prometheus":                RuleSelector,
				"app.kubernetes.io/part-of": PartOf,
			},
		},
		Spec: PrometheusRuleSpec{Groups: groups},
	}
}
