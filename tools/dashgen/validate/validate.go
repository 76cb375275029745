// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and may only reference known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/clicklar/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings
// are reported only.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// panel is the subset of the dashboard JSON model that carries queries.
type panel struct {
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Panels  []panel  `json:"panels"`
	Targets []target `json:"targets"`
}

type target struct {
	Expr  string `json:"expr"`
	RefID string `json:"refId"`
}

// Dashboard validates every panel query in dash.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var r Result

	data, err := json.Marshal(dash)
	if err != nil {
		r.errorf("marshaling dashboard: %v", err)
		return r
	}
	var doc struct {
		Panels []panel `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		r.errorf("decoding dashboard: %v", err)
		return r
	}

	for _, p := range doc.Panels {
		r.panel(p, known)
	}
	return r
}

func (r *Result) panel(p panel, known map[string]bool) {
	if p.Type == "row" {
		for _, child := range p.Panels {
			r.panel(child, known)
		}
		return
	}
	if len(p.Targets) == 0 {
		r.warnf("panel %q has no queries", p.Title)
		return
	}
	for _, t := range p.Targets {
		r.expr(fmt.Sprintf("panel %q query %s", p.Title, t.RefID), t.Expr, known)
	}
}

// Rules validates the expressions of a rule CR. Recording rules must
// record a known name so dashboards can reference it.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var r Result
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			} else if !known[name] {
				r.errorf("group %s: recording rule %q is not a known metric", g.Name, name)
			}
			r.expr(fmt.Sprintf("group %s rule %s", g.Name, name), rule.Expr, known)
		}
	}
	return r
}

func (r *Result) expr(where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		r.errorf("%s: empty expression", where)
		return
	}
	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.errorf("%s: %v", where, err)
		return
	}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !isKnown(vs.Name, known) {
			r.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

// isKnown accepts histogram and summary series of a known base metric.
func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
