//go:build unit

package output

import "testing"

func TestIntToString(t *testing.T) {
	for in, want := range map[int]string{0: "0", 13: "13", 53: "53"} {
		if got := intToString(in); got != want {
			t.Errorf("intToString(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBoolToString(t *testing.T) {
	if got, want := boolToString(true), "true"; got != want {
		t.Errorf("boolToString(true) = %q, want %q", got, want)
	}
	if got, want := boolToString(false), "false"; got != want {
		t.Errorf("boolToString(false) = %q, want %q", got, want)
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{"console": "txt", "csv": "csv", "detailed-csv": "csv", "json": "json"}
	for name, want := range cases {
		if got := extensionFor(GetFormatterByName(name)); got != want {
			t.Errorf("extensionFor(%s) = %q, want %q", name, got, want)
		}
	}
}
