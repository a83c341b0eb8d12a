package observability

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/adapters/memory"
	"github.com/aretw0/sieve/pkg/ports"
	"github.com/aretw0/sieve/pkg/schema"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeValid},
		{"validation error", &schema.ValidationError{Message: "is not a number"}, OutcomeInvalid},
		{"wrapped validation error", &schema.ValidationError{Message: "is not a number"}, OutcomeInvalid},
		{"not found", ports.ErrNotFound, OutcomeError},
		{"schema error", &schema.SchemaError{Message: "schema node is nil"}, OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestMetricsCountByOutcome(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnClean(ctx, sieve.CleanEvent{Schema: "signup", Duration: time.Millisecond})
	hooks.OnClean(ctx, sieve.CleanEvent{Schema: "signup", Duration: time.Millisecond})
	hooks.OnClean(ctx, sieve.CleanEvent{
		Schema:   "signup",
		Duration: time.Millisecond,
		Err:      &schema.ValidationError{Message: "is not a number"},
	})
	hooks.OnClean(ctx, sieve.CleanEvent{Schema: "ghost", Err: ports.ErrNotFound})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cleans.WithLabelValues("signup", OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleans.WithLabelValues("signup", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleans.WithLabelValues("ghost", OutcomeError)))

	// Durations land in the histogram for every call.
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration, "sieve_clean_duration_seconds"))
}

func TestMetricsObserveService(t *testing.T) {
	m := NewMetrics()

	store := memory.NewFromDefinitions(map[string]string{
		"age": "{type: number, min: 0}",
	})
	svc, err := sieve.New("", sieve.WithSource(store), sieve.WithHooks(m.Hooks()))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Clean(ctx, "age", "42")
	require.NoError(t, err)
	_, err = svc.Clean(ctx, "age", -1)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleans.WithLabelValues("age", OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleans.WithLabelValues("age", OutcomeInvalid)))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.Hooks().OnClean(context.Background(), sieve.CleanEvent{Schema: "age"})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	expected := `
# HELP sieve_cleans_total Total number of clean calls, by schema and outcome.
# TYPE sieve_cleans_total counter
sieve_cleans_total{outcome="valid",schema="age"} 1
`
	err = testutil.GatherAndCompare(m.registry, strings.NewReader(expected), "sieve_cleans_total")
	require.NoError(t, err)
}

func TestMetricsSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	assert.Same(t, reg, m.Registry())

	m.Hooks().OnClean(context.Background(), sieve.CleanEvent{Schema: "age"})

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "sieve_cleans_total")
	assert.Contains(t, names, "sieve_clean_duration_seconds")
}

