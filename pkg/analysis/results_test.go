package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResultStore_NumberedTemplate(t *testing.T) {
	dir := t.TempDir()
	store := &ResultStore{Dir: dir, Analysis: "edit::seqret"}

	first, err := store.Save("outseq", []byte("first"), SaveOptions{Template: "$ANALYSIS_*_$RESULT.txt"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, "edit__seqret_1_outseq.txt"); first != want {
		t.Errorf("first filename = %s, want %s", first, want)
	}

	second, err := store.Save("outseq", []byte("second"), SaveOptions{Template: "$ANALYSIS_*_$RESULT.txt"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, "edit__seqret_2_outseq.txt"); second != want {
		t.Errorf("second filename = %s, want %s", second, want)
	}

	// The first file must not have been overwritten.
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("first file content = %q, want %q", data, "first")
	}
	data, err = os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("second file content = %q, want %q", data, "second")
	}
}

func TestResultStore_PlaceholderForms(t *testing.T) {
	dir := t.TempDir()
	store := &ResultStore{Dir: dir, Analysis: "edit::seqret"}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"dollar forms", "$ANALYSIS-$RESULT.out", "edit__seqret-report.out"},
		{"braced forms", "${ANALYSIS}.${RESULT}", "edit__seqret.report"},
		{"case insensitive", "$analysis_$result", "edit__seqret_report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Save("report", []byte("x"), SaveOptions{Template: tt.template})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if got != filepath.Join(dir, tt.want) {
				t.Errorf("filename = %s, want %s", got, filepath.Join(dir, tt.want))
			}
		})
	}
}

func TestResultStore_ExplicitFilenameWins(t *testing.T) {
	dir := t.TempDir()
	store := &ResultStore{Dir: dir, Analysis: "edit::seqret"}

	got, err := store.Save("outseq", []byte("data"), SaveOptions{
		Filename: "chosen.embl",
		Template: "ignored_*.txt",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got != filepath.Join(dir, "chosen.embl") {
		t.Errorf("filename = %s, want chosen.embl in dir", got)
	}
}

func TestResultStore_SequenceNumber(t *testing.T) {
	dir := t.TempDir()
	store := &ResultStore{Dir: dir, Analysis: "a"}

	tests := []struct {
		name     string
		filename string
		seq      int
		want     string
	}{
		{"before last dot", "out.txt", 3, "out.3.txt"},
		{"no dot appends", "out", 2, "out.2"},
		{"multiple dots", "a.b.txt", 1, "a.b.1.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Save("r", []byte("x"), SaveOptions{Filename: tt.filename, Seq: tt.seq})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if got != filepath.Join(dir, tt.want) {
				t.Errorf("filename = %s, want %s", got, filepath.Join(dir, tt.want))
			}
		})
	}
}

func TestResultStore_DefaultTemplate(t *testing.T) {
	dir := t.TempDir()
	store := &ResultStore{Dir: dir, Analysis: "edit::seqret"}

	got, err := store.Save("outseq", []byte("x"), SaveOptions{})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got != filepath.Join(dir, "edit__seqret_1_outseq") {
		t.Errorf("filename = %s, want default-template name", got)
	}
}

func TestResultStore_WriteError(t *testing.T) {
	store := &ResultStore{Dir: filepath.Join(t.TempDir(), "missing-subdir"), Analysis: "a"}

	_, err := store.Save("outseq", []byte("x"), SaveOptions{Filename: "out.txt"})
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
	var we *ResultWriteError
	if !errors.As(err, &we) {
		t.Fatalf("error = %v, want ResultWriteError", err)
	}
	if we.Result != "outseq" {
		t.Errorf("ResultWriteError.Result = %q, want outseq", we.Result)
	}
}
