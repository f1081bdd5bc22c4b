package repository

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-templatemap/pkg/template"
)

func TestMetrics_RecordCacheActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	repo, err := New(template.NewRepositoryOptions(
		template.WithFileSystem(fstest.MapFS{"a.json": {Data: []byte(`{}`)}}),
		template.WithMetrics(reg),
	))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.Load(ctx, "a.json"); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if _, err := repo.Load(ctx, "missing.json"); err == nil {
		t.Fatalf("expected missing template to fail")
	}
	repo.Evict("a.json")

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"hits", testutil.ToFloat64(repo.metrics.hits), 2},
		{"misses", testutil.ToFloat64(repo.metrics.misses), 2},
		{"loads", testutil.ToFloat64(repo.metrics.loads), 1},
		{"read failures", testutil.ToFloat64(repo.metrics.failures.WithLabelValues("load", "ReadError")), 1},
		{"evictions", testutil.ToFloat64(repo.metrics.evictions), 1},
		{"size", testutil.ToFloat64(repo.metrics.size), 0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: want %v got %v", c.name, c.want, c.got)
		}
	}

	if _, err := New(template.NewRepositoryOptions(template.WithMetrics(reg))); err == nil {
		t.Fatalf("registering twice on one registry should fail")
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *repositoryMetrics
	m.recordHit()
	m.recordMiss()
	m.recordLoad()
	m.recordFailure("load", "ReadError")
	m.recordEviction()
	m.updateSize(3)
}

func TestOrderedStore_KeepsInsertionOrder(t *testing.T) {
	s := newOrderedStore()
	format, _ := template.NewFormat("json", `{}`)
	tpl, _ := template.New("x.json", format, nil, "")

	s.put("b.json", tpl)
	s.put("a.json", tpl)
	s.put("b.json", tpl)
	if got := s.keys(); len(got) != 2 || got[0] != "b.json" || got[1] != "a.json" {
		t.Fatalf("unexpected order: %v", got)
	}
	if !s.remove("b.json") || s.remove("b.json") {
		t.Fatalf("remove should report presence")
	}
	s.purge()
	if s.len() != 0 || len(s.keys()) != 0 {
		t.Fatalf("purge should empty the store")
	}
}
