package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/clicklar/tools/dashgen/dashboards"
	"github.com/donaldgifford/clicklar/tools/dashgen/rules"
	"github.com/donaldgifford/clicklar/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	builder := dashboards.BuildOverview()
	dash, err := builder.Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "clicklar-devapi", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Clicklar Dev API", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 3)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 12, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "clicklar-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "clicklar-recording", group.Name)

	expectedRecords := []string{
		"clicklar:http_requests:rate5m",
		"clicklar:http_errors:rate5m",
		"clicklar:http_client_errors:rate5m",
		"clicklar:http_request_duration:p95_5m",
	}
	require.Len(t, group.Rules, len(expectedRecords))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.NotEmpty(t, rule.Expr)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestRuleSets_ShareIdentity(t *testing.T) {
	t.Parallel()

	for _, cr := range []rules.PrometheusRule{rules.RecordingRules(), rules.AlertRules()} {
		t.Run(cr.Metadata.Name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, rules.APIVersion, cr.APIVersion)
			assert.Equal(t, rules.Kind, cr.Kind)
			assert.Equal(t, map[string]string{
				"prometheus":                rules.RuleSelector,
				"app.kubernetes.io/part-of": rules.PartOf,
			}, cr.Metadata.Labels)

			for _, g := range cr.Spec.Groups {
				for _, r := range g.Rules {
					assert.True(t, (r.Record == "") != (r.Alert == ""),
						"rule %q must set exactly one of record or alert", r.Expr)
				}
			}
		})
	}

	assert.Equal(t, "1m", rules.RecordingRules().Spec.Groups[0].Interval)
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "clicklar-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "clicklar-alerts", group.Name)

	expectedAlerts := []string{
		"ClicklarDevAPIDown",
		"ClicklarReadinessDown",
		"ClicklarHighErrorRate",
		"ClicklarHighLatency",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, run(Config{OutputDir: dir, DashboardEnabled: true, RulesEnabled: true}, false))

	data, err := os.ReadFile(filepath.Join(dir, "grafana", "data", "clicklar-devapi.json"))
	require.NoError(t, err)
	var dash map[string]any
	require.NoError(t, json.Unmarshal(data, &dash))
	assert.Equal(t, "clicklar-devapi", dash["uid"])

	for _, name := range []string{"clicklar-recording-rules.yaml", "clicklar-alerts.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, "prometheus", name))
		require.NoError(t, err, name)
		assert.True(t, len(data) > len(generatedHeader), name)
		assert.Equal(t, generatedHeader, string(data[:len(generatedHeader)]), name)

		var cr rules.PrometheusRule
		require.NoError(t, yaml.Unmarshal(data, &cr), name)
		assert.Equal(t, "PrometheusRule", cr.Kind, name)
	}
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, run(Config{OutputDir: dir, RulesEnabled: true}, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
