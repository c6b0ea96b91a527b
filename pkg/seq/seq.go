// Package seq holds minimal biological sequence records and the flat-file
// formats the toolkit needs to read and write: FASTA in, FASTA or
// EMBL-style out, plus content sniffing for deciding whether a result value
// is textual or binary.
package seq

import (
	"bytes"
	"unicode/utf8"
)

// A Record is one named biological sequence.
type Record struct {
	// ID is the primary sequence identifier.
	ID string

	// Description is the free text following the ID on the header line.
	Description string

	// Residues holds the sequence letters.
	Residues []byte
}

// Len returns the number of residues in the record.
func (r Record) Len() int {
	return len(r.Residues)
}

// Format identifies a sniffed data format.
type Format int

const (
	FormatUnknown Format = iota
	FormatFasta
	FormatEMBL
	FormatBinary
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatFasta:
		return "fasta"
	case FormatEMBL:
		return "embl"
	case FormatBinary:
		return "binary"
	}
	return "unknown"
}

// IsBinary reports whether data looks like binary rather than text: it
// contains a NUL byte or is not valid UTF-8.
func IsBinary(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}

// DetectFormat sniffs the format of data from its leading bytes.
func DetectFormat(data []byte) Format {
	if IsBinary(data) {
		return FormatBinary
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte(">")):
		return FormatFasta
	case bytes.HasPrefix(trimmed, []byte("ID   ")):
		return FormatEMBL
	}
	return FormatUnknown
}
