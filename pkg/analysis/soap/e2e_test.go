package soap_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/me/soaplab/internal/mocklab"
	"github.com/me/soaplab/pkg/analysis"
	_ "github.com/me/soaplab/pkg/analysis/soap"
)

// TestSeqretEndToEnd drives the full client stack against the in-process
// service: submit a raw sequence to edit::seqret, wait for completion and
// check the EMBL-formatted result.
func TestSeqretEndToEnd(t *testing.T) {
	srv := httptest.NewServer(mocklab.New(nil, mocklab.WithRunDelay(2)).Handler())
	defer srv.Close()

	cfg := analysis.DefaultConfig("edit::seqret").
		WithLocation(srv.URL).
		WithPollInterval(10 * time.Millisecond).
		WithTimeout(5 * time.Second)
	client, err := analysis.NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx := context.Background()
	job, err := client.WaitFor(ctx, map[string]any{
		"sequence_direct_data": "ACGTACGTACGT",
		"osformat":             "embl",
	})
	if err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
	defer job.Close()

	if job.LastStatus() != analysis.StateCompleted {
		t.Fatalf("final state = %q, want %q", job.LastStatus(), analysis.StateCompleted)
	}
	if !strings.HasPrefix(job.ID(), "edit::seqret/") {
		t.Errorf("job id = %q, want analysis-name prefix", job.ID())
	}

	outseq, err := job.Result(ctx, "outseq")
	if err != nil {
		t.Fatalf("Result(outseq): %v", err)
	}
	if !strings.Contains(string(outseq), "ID") {
		t.Errorf("EMBL output missing ID line:\n%s", outseq)
	}

	times, err := job.Times(ctx)
	if err != nil {
		t.Fatalf("Times: %v", err)
	}
	if times.Created.IsZero() {
		t.Error("creation time not reported")
	}
	if _, ok := times.Elapsed(); !ok {
		t.Error("elapsed time not available after completion")
	}
}

func TestDescribeEndToEnd(t *testing.T) {
	srv := httptest.NewServer(mocklab.New(nil).Handler())
	defer srv.Close()

	cfg := analysis.DefaultConfig("edit::seqret").WithLocation(srv.URL)
	client, err := analysis.NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	meta, err := client.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if meta.Name != "edit::seqret" {
		t.Errorf("metadata name = %q", meta.Name)
	}

	inputs, err := client.InputSpec(context.Background())
	if err != nil {
		t.Fatalf("InputSpec: %v", err)
	}
	if len(inputs) == 0 {
		t.Fatal("no input specs")
	}
}

func TestFailedJobEndToEnd(t *testing.T) {
	srv := httptest.NewServer(mocklab.New(nil).Handler())
	defer srv.Close()

	cfg := analysis.DefaultConfig("edit::seqret").
		WithLocation(srv.URL).
		WithPollInterval(10 * time.Millisecond).
		WithTimeout(5 * time.Second)
	client, err := analysis.NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	job, err := client.WaitFor(context.Background(), map[string]any{
		"sequence_direct_data": "ACGT",
		"osformat":             "genbank",
	})
	if err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
	defer job.Close()

	if job.LastStatus() != analysis.StateFailed {
		t.Errorf("final state = %q, want %q", job.LastStatus(), analysis.StateFailed)
	}
}
