package common

import "testing"

func TestSanitizeAndValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "https://www.gutenberg.org/cache/epub/28885/pg28885.txt", want: "https://www.gutenberg.org/cache/epub/28885/pg28885.txt"},
		{name: "whitespace and trailing comma", raw: "  https://example.com/book.txt, ", want: "https://example.com/book.txt"},
		{name: "markdown link", raw: "[Alice](https://example.com/alice)", want: "https://example.com/alice"},
		{name: "angle brackets", raw: "<https://example.com>", want: "https://example.com"},
		{name: "with port", raw: "http://127.0.0.1:8080/text", want: "http://127.0.0.1:8080/text"},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "no scheme", raw: "example.com/book.txt", wantErr: true},
		{name: "ftp scheme", raw: "ftp://example.com/book.txt", wantErr: true},
		{name: "space in path", raw: "https://example.com/my book.txt", wantErr: true},
		{name: "braces in host", raw: "https://example.com{}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeAndValidateURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeAndValidateURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeAndValidateURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestContentHash(t *testing.T) {
	got := ContentHash([]byte("hello"))
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("ContentHash() = %q, want %q", got, want)
	}
}
