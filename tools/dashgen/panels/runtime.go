package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Goroutines returns a timeseries panel showing the goroutine count. A
// steady climb points at leaked request or fetch goroutines.
func Goroutines() *timeseries.PanelBuilder {
	return runtimeSeries("Goroutines", "Live goroutines", `go_goroutines`, "short")
}

// HeapAlloc returns a timeseries panel showing allocated heap bytes.
func HeapAlloc() *timeseries.PanelBuilder {
	return runtimeSeries("Heap", "Allocated heap bytes", `go_memstats_heap_alloc_bytes`, "bytes")
}

func runtimeSeries(title, description, metric, unit string) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(metric+jobSelector, title, "A")).
		Unit(unit).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
