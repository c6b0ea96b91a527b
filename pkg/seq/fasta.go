package seq

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// ReadFasta reads all FASTA records from r. Sequence lines are
// concatenated with whitespace stripped; empty records (a header with no
// residues) are kept.
func ReadFasta(r io.Reader) ([]Record, error) {
	var records []Record
	var cur *Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if cur != nil {
				records = append(records, *cur)
			}
			id, desc := splitHeader(line[1:])
			cur = &Record{ID: id, Description: desc}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("fasta: line %d: sequence data before first header", lineNo)
		}
		cur.Residues = append(cur.Residues, []byte(strings.Join(strings.Fields(line), ""))...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	if cur != nil {
		records = append(records, *cur)
	}
	return records, nil
}

// ParseFasta reads FASTA records from a byte slice.
func ParseFasta(data []byte) ([]Record, error) {
	return ReadFasta(bytes.NewReader(data))
}

// WriteFasta writes records to w, wrapping sequence lines at 60 columns.
func WriteFasta(w io.Writer, records []Record) error {
	for _, rec := range records {
		header := rec.ID
		if rec.Description != "" {
			header += " " + rec.Description
		}
		if _, err := fmt.Fprintf(w, ">%s\n", header); err != nil {
			return err
		}
		for i := 0; i < len(rec.Residues); i += 60 {
			end := i + 60
			if end > len(rec.Residues) {
				end = len(rec.Residues)
			}
			if _, err := fmt.Fprintf(w, "%s\n", rec.Residues[i:end]); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitHeader(header string) (id, desc string) {
	header = strings.TrimSpace(header)
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}
