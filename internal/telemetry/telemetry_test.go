package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), Config{ServiceName: "clicklar"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestResource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		version     string
		wantVersion bool
	}{
		{name: "with version", version: "1.2.3", wantVersion: true},
		{name: "without version", version: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Resource("clicklar", tt.version)
			set := res.Set()

			v, ok := set.Value(attribute.Key("service.name"))
			require.True(t, ok)
			assert.Equal(t, "clicklar", v.AsString())

			_, ok = set.Value(attribute.Key("service.version"))
			assert.Equal(t, tt.wantVersion, ok)
		})
	}
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "clicklar", userAgent(Config{ServiceName: "clicklar"}))
	assert.Equal(t, "clicklar/dev", userAgent(Config{ServiceName: "clicklar", Version: "dev"}))
}
