package textfile

import "testing"

func TestIsText(t *testing.T) {
	for _, name := range []string{"notes.txt", "NOTES.TXT", "dir/a.b.txt"} {
		if !IsText(name) {
			t.Fatalf("expected %q to be accepted", name)
		}
	}
	for _, name := range []string{"notes", "notes.md", "txt", "notes.txt.bak"} {
		if IsText(name) {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}
