package language

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "english",
			text: "Alice was beginning to get very tired of sitting by her sister on the bank, and of having nothing to do.",
			want: "en",
		},
		{
			name: "ukrainian",
			text: "Скрипт завантажує текст із заданої адреси і визначає кількість входжень слів у тексті.",
			want: "uk",
		},
		{
			name: "german",
			text: "Alice fing an sich zu langweilen; sie saß schon lange bei ihrer Schwester am Ufer und hatte nichts zu tun.",
			want: "de",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, confidence := d.Detect(tt.text)
			if code != tt.want {
				t.Errorf("Detect() code = %q, want %q", code, tt.want)
			}
			if confidence <= 0 || confidence > 1 {
				t.Errorf("Detect() confidence = %f, want (0, 1]", confidence)
			}
		})
	}
}

func TestDetect_Empty(t *testing.T) {
	code, confidence := NewDetector().Detect("   ")
	if code != "" || confidence != 0 {
		t.Errorf("Detect(blank) = %q, %f, want empty", code, confidence)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("привіт", 3); got != "при" {
		t.Errorf("truncate() = %q, want %q", got, "при")
	}
	long := strings.Repeat("a", 10)
	if got := truncate(long, 20); got != long {
		t.Errorf("truncate() changed a short string: %q", got)
	}
}
