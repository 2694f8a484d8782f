package driver

import (
	"path/filepath"
	"testing"
)

func utf16LE(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func TestDecodeSource(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"plain", []byte("let x: number;"), "let x: number;"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "let y;"...), "let y;"},
		{"utf16le bom", utf16LE("let z: string;"), "let z: string;"},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		got, err := DecodeSource(tc.data)
		if err != nil {
			t.Fatalf("%s: DecodeSource error: %v", tc.name, err)
		}
		if string(got) != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, err := ReadSource(filepath.Join(t.TempDir(), "missing.ts")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
