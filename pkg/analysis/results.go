package analysis

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultResultTemplate names result files when no filename or template is
// given.
const DefaultResultTemplate = "$ANALYSIS_*_$RESULT"

// ResultStore writes result values to files, resolving filename templates.
//
// The free-number scan for the "*" wildcard creates files with exclusive
// semantics (O_EXCL), so two stores in separate processes sharing a
// directory and template never overwrite each other; the loser of a race
// simply moves on to the next number.
type ResultStore struct {
	// Dir is the directory files are written to. Empty means the process
	// working directory.
	Dir string

	// Analysis is the display name substituted for $ANALYSIS.
	Analysis string
}

// SaveOptions control filename resolution for one Save call.
type SaveOptions struct {
	// Filename is an explicit target filename. It wins over Template.
	Filename string

	// Template is a filename template. Empty means DefaultResultTemplate.
	Template string

	// Seq, when positive, is inserted immediately before the last "." of
	// the resolved filename (or appended when there is none) as ".<n>".
	Seq int
}

var placeholderRe = regexp.MustCompile(`(?i)\$\{?(ANALYSIS|RESULT)\}?`)

// Save writes value under a filename resolved from opts and the result
// name, and returns the final filename. Failures to open, write or close
// the file are reported as a ResultWriteError.
func (s *ResultStore) Save(name string, value []byte, opts SaveOptions) (string, error) {
	filename := opts.Filename
	if filename == "" {
		filename = opts.Template
		if filename == "" {
			filename = DefaultResultTemplate
		}
	}
	filename = s.expand(filename, name)

	if opts.Seq > 0 {
		filename = insertSeq(filename, opts.Seq)
	}

	if strings.Contains(filename, "*") {
		return s.saveNumbered(name, filename, value)
	}

	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, value, 0o644); err != nil {
		return "", &ResultWriteError{Result: name, Path: path, Err: err}
	}
	return path, nil
}

// expand substitutes the $ANALYSIS and $RESULT placeholders
// (case-insensitively, with or without braces).
func (s *ResultStore) expand(filename, result string) string {
	display := s.displayName()
	return placeholderRe.ReplaceAllStringFunc(filename, func(m string) string {
		switch strings.ToUpper(strings.Trim(m, "${}")) {
		case "ANALYSIS":
			return display
		default:
			return result
		}
	})
}

// displayName is the analysis name with colons and slashes replaced by
// underscores to keep it filesystem-safe.
func (s *ResultStore) displayName() string {
	r := strings.NewReplacer(":", "_", "/", "_", "\\", "_")
	return r.Replace(s.Analysis)
}

// insertSeq puts ".<n>" immediately before the last dot of filename, or
// appends it when the filename has no dot.
func insertSeq(filename string, seq int) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[:i] + "." + strconv.Itoa(seq) + filename[i:]
	}
	return filename + "." + strconv.Itoa(seq)
}

// saveNumbered scans 1, 2, 3, ... substituting each number into the "*"
// position until it finds a filename it can create exclusively.
func (s *ResultStore) saveNumbered(name, filename string, value []byte) (string, error) {
	for n := 1; ; n++ {
		candidate := filepath.Join(s.Dir, strings.ReplaceAll(filename, "*", strconv.Itoa(n)))
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", &ResultWriteError{Result: name, Path: candidate, Err: err}
		}
		if _, err := f.Write(value); err != nil {
			f.Close()
			return "", &ResultWriteError{Result: name, Path: candidate, Err: err}
		}
		if err := f.Close(); err != nil {
			return "", &ResultWriteError{Result: name, Path: candidate, Err: err}
		}
		return candidate, nil
	}
}
