package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{header: "Saved"}, {header: "Words", right: true}, {header: "Path"}}
	rows := [][]string{
		{"2026-03-01", "125", "notes.txt"},
		{"2026-03-02", "7", "отчёт.txt"},
		{"2026-03-03", "12"},
	}

	lines := formatTable(cols, rows)
	want := []string{
		"Saved       Words  Path",
		"----------  -----  ---------",
		"2026-03-01    125  notes.txt",
		"2026-03-02      7  отчёт.txt",
		"2026-03-03     12",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil); lines != nil {
		t.Fatalf("expected nil lines, got %v", lines)
	}
}
