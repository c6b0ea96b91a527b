package mocklab

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/me/soaplab/pkg/seq"
)

// seqretApp is the built-in sequence format converter, modelled on the
// EMBOSS seqret tool.
func seqretApp() *App {
	return &App{
		Name:        "edit::seqret",
		Type:        "edit",
		Description: "Reads and writes (returns) sequences",
		Inputs: []Param{
			{Name: "sequence_direct_data", Type: "text", Mandatory: true},
			{Name: "osformat", Type: "text", Default: "fasta", Allowed: []string{"fasta", "embl"}},
		},
		Results: []Param{
			{Name: "outseq", Type: "text"},
			{Name: "report", Type: "text"},
		},
		Run: runSeqret,
	}
}

func runSeqret(inputs map[string][]byte) (map[string][]byte, error) {
	data, ok := inputs["sequence_direct_data"]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("missing mandatory input %q", "sequence_direct_data")
	}
	records, err := parseSequence(data)
	if err != nil {
		return nil, err
	}

	format := "fasta"
	if f, ok := inputs["osformat"]; ok {
		format = strings.ToLower(strings.TrimSpace(string(f)))
	}

	var out bytes.Buffer
	switch format {
	case "fasta":
		if err := seq.WriteFasta(&out, records); err != nil {
			return nil, err
		}
	case "embl":
		for _, rec := range records {
			if err := seq.WriteEMBL(&out, rec); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	report := fmt.Sprintf("seqret: %d sequence(s) written as %s\n", len(records), format)
	return map[string][]byte{
		"outseq": out.Bytes(),
		"report": []byte(report),
	}, nil
}

// parseSequence accepts either FASTA input or bare residues.
func parseSequence(data []byte) ([]seq.Record, error) {
	if seq.DetectFormat(data) == seq.FormatFasta {
		return seq.ParseFasta(data)
	}
	residues := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, string(data))
	if residues == "" {
		return nil, fmt.Errorf("empty sequence input")
	}
	return []seq.Record{{ID: "Sequence", Residues: []byte(residues)}}, nil
}
