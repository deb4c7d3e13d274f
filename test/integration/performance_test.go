package integration

import (
	"testing"
	"time"

	"github.com/iwvelando/finance-analysis/internal/analysis"
	"github.com/iwvelando/finance-analysis/internal/config"
	"github.com/iwvelando/finance-analysis/pkg/investment"
	"github.com/iwvelando/finance-analysis/pkg/testutil"
	"go.uber.org/zap"
)

// TestPerformance guards against pathological slowdowns of a full analysis.
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	conf.Projection.YearsAhead = 10

	const iterations = 50
	start := time.Now()
	for i := 0; i < iterations; i++ {
		report := analysis.GetAnalysis(zap.NewNop(), *conf)
		if report.Projection == nil {
			t.Fatal("expected a projection")
		}
	}
	elapsed := time.Since(start)

	if perRun := elapsed / iterations; perRun > 500*time.Millisecond {
		t.Errorf("analysis took %s per run, expected under 500ms", perRun)
	}
}

// TestDataConsistency checks that repeated runs produce identical results.
func TestDataConsistency(t *testing.T) {
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	first := analysis.GetAnalysis(zap.NewNop(), *conf)
	second := analysis.GetAnalysis(zap.NewNop(), *conf)

	if len(first.Projection.Records) != len(second.Projection.Records) {
		t.Fatal("projected year counts differ between runs")
	}
	for i := range first.Projection.Records {
		if first.Projection.Records[i] != second.Projection.Records[i] {
			t.Errorf("projected record %d differs: %+v vs %+v", i, first.Projection.Records[i], second.Projection.Records[i])
		}
	}
	for i := range first.Projects {
		a, b := first.Projects[i].Evaluation, second.Projects[i].Evaluation
		if a.NPV != b.NPV || a.IRR != b.IRR {
			t.Errorf("project %s metrics differ between runs", first.Projects[i].Name)
		}
	}
}

func BenchmarkGetAnalysis(b *testing.B) {
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		b.Fatalf("LoadConfiguration() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analysis.GetAnalysis(zap.NewNop(), *conf)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	project := testutil.SampleProject()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		investment.Evaluate(project)
	}
}
