package source

import (
	"errors"
	"io/fs"
	"testing"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{"row and text", &ParseError{Source: "web", Row: 3, Text: "bad cell"}, `web: row 3: cannot parse "bad cell"`},
		{"cause only", &ParseError{Source: "file", Err: errors.New("eof")}, "file: eof"},
		{"all", &ParseError{Source: "web", Row: 1, Text: "x y", Err: errors.New("no match")}, `web: row 1: cannot parse "x y": no match`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("system", fs.ErrNotExist)
	if !errors.Is(err, ErrUnavailable) {
		t.Error("Unavailable should match ErrUnavailable")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("Unavailable should keep the cause")
	}
}
