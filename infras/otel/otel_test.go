package otel

import (
	"testing"

	"hostel/config"

	"github.com/stretchr/testify/assert"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func TestResource(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "hostel"
	cfg.App.Version = "1.4.0"
	cfg.Server.Env = "production"

	attrs := Resource(cfg).Set()

	name, ok := attrs.Value(semconv.ServiceNameKey)
	assert.True(t, ok)
	assert.Equal(t, "hostel", name.AsString())

	version, ok := attrs.Value(semconv.ServiceVersionKey)
	assert.True(t, ok)
	assert.Equal(t, "1.4.0", version.AsString())

	env, ok := attrs.Value(semconv.DeploymentEnvironmentKey)
	assert.True(t, ok)
	assert.Equal(t, "production", env.AsString())
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 1, want: "ParentBased{root:AlwaysOnSampler"},
		{ratio: 0, want: "ParentBased{root:AlwaysOffSampler"},
		{ratio: 0.25, want: "ParentBased{root:TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		cfg := &config.Config{}
		cfg.External.Otel.SampleRatio = tt.ratio

		assert.Contains(t, Sampler(cfg).Description(), tt.want)
	}
}

func TestNewWithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "hostel"
	cfg.External.Otel.SampleRatio = 1

	tracer := New(cfg)

	_, scope := tracer.NewScope(t.Context(), "test", "test.span")
	scope.SetAttribute("room.capacity", 4)
	scope.End()
}
