package seq

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadFasta(t *testing.T) {
	input := `>seq1 first sequence
ACGT ACGT
acgt
>seq2
TTTT
`
	records, err := ParseFasta([]byte(input))
	if err != nil {
		t.Fatalf("ParseFasta: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "seq1" || records[0].Description != "first sequence" {
		t.Errorf("first header = %q / %q", records[0].ID, records[0].Description)
	}
	if string(records[0].Residues) != "ACGTACGTacgt" {
		t.Errorf("first residues = %q", records[0].Residues)
	}
	if records[1].ID != "seq2" || records[1].Description != "" {
		t.Errorf("second header = %q / %q", records[1].ID, records[1].Description)
	}
}

func TestReadFastaDataBeforeHeader(t *testing.T) {
	if _, err := ParseFasta([]byte("ACGT\n>seq1\nACGT\n")); err == nil {
		t.Error("expected an error for data before the first header")
	}
}

func TestWriteFastaWraps(t *testing.T) {
	rec := Record{ID: "long", Residues: bytes.Repeat([]byte("A"), 130)}

	var buf bytes.Buffer
	if err := WriteFasta(&buf, []Record{rec}); err != nil {
		t.Fatalf("WriteFasta: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 sequence lines", len(lines))
	}
	if lines[0] != ">long" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines[1]) != 60 || len(lines[3]) != 10 {
		t.Errorf("line lengths = %d, %d, %d", len(lines[1]), len(lines[2]), len(lines[3]))
	}

	// Round trip.
	back, err := ParseFasta(buf.Bytes())
	if err != nil {
		t.Fatalf("re-parsing: %v", err)
	}
	if len(back) != 1 || back[0].Len() != 130 {
		t.Errorf("round trip lost residues: %+v", back)
	}
}

func TestWriteEMBL(t *testing.T) {
	rec := Record{
		ID:          "XX123",
		Description: "test entry",
		Residues:    []byte("ACGTACGTACGTACG"),
	}

	var buf bytes.Buffer
	if err := WriteEMBL(&buf, rec); err != nil {
		t.Fatalf("WriteEMBL: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "ID   XX123; SV 1; linear; unassigned; STD; UNC; 15 BP.\n") {
		t.Errorf("ID line wrong:\n%s", out)
	}
	if !strings.Contains(out, "DE   test entry\n") {
		t.Errorf("DE line missing:\n%s", out)
	}
	if !strings.Contains(out, "SQ   Sequence 15 BP;\n") {
		t.Errorf("SQ line missing:\n%s", out)
	}
	// Residues land lowercased in groups of ten with a trailing position.
	if !strings.Contains(out, "acgtacgtac gtacg") {
		t.Errorf("sequence line wrong:\n%s", out)
	}
	if !strings.HasSuffix(out, "//\n") {
		t.Errorf("terminator missing:\n%s", out)
	}
}

func TestWriteEMBLEmptyID(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEMBL(&buf, Record{Residues: []byte("ACGT")}); err != nil {
		t.Fatalf("WriteEMBL: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "ID   UNKNOWN;") {
		t.Errorf("missing ID fallback:\n%s", buf.String())
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"plain text", []byte("ACGT\n"), false},
		{"empty", nil, false},
		{"nul byte", []byte{'A', 0, 'B'}, true},
		{"invalid utf8", []byte{0xff, 0xfe}, true},
		{"png header", []byte{0x89, 'P', 'N', 'G'}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinary(tt.data); got != tt.want {
				t.Errorf("IsBinary = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"fasta", []byte(">seq1\nACGT\n"), FormatFasta},
		{"fasta with leading blank", []byte("\n  >seq1\nACGT\n"), FormatFasta},
		{"embl", []byte("ID   XX123; SV 1;\n"), FormatEMBL},
		{"binary", []byte{0, 1, 2}, FormatBinary},
		{"bare residues", []byte("ACGTACGT"), FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat = %v, want %v", got, tt.want)
			}
		})
	}
}
