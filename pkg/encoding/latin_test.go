package encoding

import "testing"

func TestWindows1252ToUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("EAGLE.MAT"), "EAGLE.MAT"},
		{"latin1", []byte{'C', 'a', 'f', 0xe9}, "Café"},
		{"euro", []byte{0x80}, "€"},
		{"utf8 passthrough", []byte("Café"), "Café"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Windows1252ToUTF8(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUTF8ToWindows1252(t *testing.T) {
	got := UTF8ToWindows1252("Café")
	want := []byte{'C', 'a', 'f', 0xe9}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := NormalizePath(`DATA\MODELS\Eagle.DAT`); got != "data/models/eagle.dat" {
		t.Errorf("got %q", got)
	}
}
