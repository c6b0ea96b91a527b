package emboss

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/me/soaplab/pkg/seq"
)

// SeqretConfig configures the seqret sequence converter.
type SeqretConfig struct {
	Exec     string // program name or path
	OSFormat string // output format, e.g. "fasta" or "embl"
}

// SeqretDefault runs "seqret" from PATH writing FASTA.
var SeqretDefault = SeqretConfig{
	Exec:     "seqret",
	OSFormat: "fasta",
}

// Run converts the sequence data and returns the reformatted output.
func (conf SeqretConfig) Run(ctx context.Context, runner *Runner, input []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "soaplab-seqret")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	inFile := filepath.Join(dir, "in.seq")
	outFile := filepath.Join(dir, "out.seq")
	if err := os.WriteFile(inFile, input, 0o644); err != nil {
		return nil, err
	}

	argv := BuildCommandLine(conf.Exec, map[string]any{
		"sequence":  inFile,
		"outseq":    outFile,
		"osformat2": conf.OSFormat,
		"auto":      true,
	})
	res, err := runner.Run(ctx, argv, nil)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("%s exited %d: %s", conf.Exec, res.ExitCode, res.Stderr)
	}
	return os.ReadFile(outFile)
}

// TranseqConfig configures the transeq nucleotide translator.
type TranseqConfig struct {
	Exec  string
	Frame string // translation frame, e.g. "1" or "6"
	Table int    // genetic code table number
}

// TranseqDefault translates frame 1 with the standard code.
var TranseqDefault = TranseqConfig{
	Exec:  "transeq",
	Frame: "1",
	Table: 0,
}

// Run translates the nucleotide sequences and returns the protein records
// parsed from the tool's FASTA output.
func (conf TranseqConfig) Run(ctx context.Context, runner *Runner, records []seq.Record) ([]seq.Record, error) {
	dir, err := os.MkdirTemp("", "soaplab-transeq")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	inFile := filepath.Join(dir, "in.fasta")
	outFile := filepath.Join(dir, "out.fasta")
	in, err := os.Create(inFile)
	if err != nil {
		return nil, err
	}
	if err := seq.WriteFasta(in, records); err != nil {
		in.Close()
		return nil, err
	}
	if err := in.Close(); err != nil {
		return nil, err
	}

	argv := BuildCommandLine(conf.Exec, map[string]any{
		"sequence": inFile,
		"outseq":   outFile,
		"frame":    conf.Frame,
		"table":    conf.Table,
		"auto":     true,
	})
	res, err := runner.Run(ctx, argv, nil)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("%s exited %d: %s", conf.Exec, res.ExitCode, res.Stderr)
	}

	out, err := os.Open(outFile)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	return seq.ReadFasta(out)
}
