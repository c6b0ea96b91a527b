package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/me/soaplab/internal/ledger"
	"github.com/me/soaplab/pkg/analysis"
)

// buildConfig merges the config file and command line flags into the
// client configuration for the named analysis. Flags win.
func buildConfig(name string) analysis.Config {
	cfg := cfgFile.ClientConfig(name)
	if flagAccess != "" {
		cfg = cfg.WithAccess(flagAccess)
	}
	if flagLocation != "" {
		cfg = cfg.WithLocation(flagLocation)
	}
	if flagProxy != "" {
		cfg = cfg.WithProxy(flagProxy)
	}
	if flagTimeout != 0 {
		cfg = cfg.WithTimeout(flagTimeout)
	}
	if flagPollInterval != 0 {
		cfg = cfg.WithPollInterval(flagPollInterval)
	}
	if flagKeep {
		cfg = cfg.WithDestroyOnExit(false)
	}
	if flagResultDir != "" {
		cfg = cfg.WithResultDir(flagResultDir)
	}
	return cfg
}

// newAnalysisClient builds a client for the named analysis.
func newAnalysisClient(name string) (*analysis.Client, error) {
	return analysis.NewClient(buildConfig(name), logger)
}

// openLedger opens the local job ledger, creating it on first use.
func openLedger(ctx context.Context) (*ledger.Ledger, error) {
	path := cfgFile.Ledger
	if path == "" {
		var err error
		if path, err = ledger.DefaultPath(); err != nil {
			return nil, err
		}
	}
	l, err := ledger.Open(path, logger)
	if err != nil {
		return nil, err
	}
	if err := l.Migrate(ctx); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// recordJob remembers a job in the ledger. Ledger failures are logged,
// not fatal: the job itself already exists on the service.
func recordJob(ctx context.Context, job *analysis.Job, cfg analysis.Config) {
	l, err := openLedger(ctx)
	if err != nil {
		logger.Warn("job ledger unavailable", "error", err)
		return
	}
	defer l.Close()
	if err := l.Put(ctx, &ledger.Record{
		JobID:    job.ID(),
		Analysis: job.Analysis(),
		Access:   cfg.Access,
		Location: cfg.Location,
		State:    job.LastStatus(),
	}); err != nil {
		logger.Warn("recording job", "job", job.ID(), "error", err)
	}
}

// analysisFromJobID derives the analysis name from a composed job ID of
// the "analysis/token" shape.
func analysisFromJobID(jobID string) (string, error) {
	name, _, ok := strings.Cut(jobID, "/")
	if !ok || name == "" {
		return "", fmt.Errorf("job ID %q does not carry an analysis name", jobID)
	}
	return name, nil
}

// collectInputs turns command line arguments and an optional inputs file
// into input descriptors. Arguments are "name=value" pairs; the file is a
// YAML mapping. Later descriptors override earlier ones, so arguments win
// over the file.
func collectInputs(inputsFile string, args []string) ([]analysis.InputDescriptor, error) {
	var descriptors []analysis.InputDescriptor
	if inputsFile != "" {
		data, err := os.ReadFile(inputsFile)
		if err != nil {
			return nil, fmt.Errorf("reading inputs file: %w", err)
		}
		var fromFile map[string]any
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parsing inputs file: %w", err)
		}
		descriptors = append(descriptors, fromFile)
	}
	if len(args) > 0 {
		descriptors = append(descriptors, args)
	}
	return descriptors, nil
}
