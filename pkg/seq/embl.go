package seq

import (
	"fmt"
	"io"
	"strings"
)

// WriteEMBL writes rec to w as a minimal EMBL flat-file entry: an ID line,
// a DE line when the record has a description, the SQ header and the
// sequence in 60-residue lines grouped by tens, closed by "//".
func WriteEMBL(w io.Writer, rec Record) error {
	id := rec.ID
	if id == "" {
		id = "UNKNOWN"
	}
	if _, err := fmt.Fprintf(w, "ID   %s; SV 1; linear; unassigned; STD; UNC; %d BP.\n", id, rec.Len()); err != nil {
		return err
	}
	if rec.Description != "" {
		if _, err := fmt.Fprintf(w, "DE   %s\n", rec.Description); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "SQ   Sequence %d BP;\n", rec.Len()); err != nil {
		return err
	}
	for i := 0; i < len(rec.Residues); i += 60 {
		end := i + 60
		if end > len(rec.Residues) {
			end = len(rec.Residues)
		}
		line := rec.Residues[i:end]
		var groups []string
		for j := 0; j < len(line); j += 10 {
			gend := j + 10
			if gend > len(line) {
				gend = len(line)
			}
			groups = append(groups, strings.ToLower(string(line[j:gend])))
		}
		if _, err := fmt.Fprintf(w, "     %-66s%d\n", strings.Join(groups, " "), end); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "//")
	return err
}
