package jolpica

import (
	"testing"
	"time"
)

func TestParseLapTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"1:29.708", time.Minute + 29*time.Second + 708*time.Millisecond, false},
		{"59.1", 59*time.Second + 100*time.Millisecond, false},
		{"2:01.0005", 2*time.Minute + time.Second, false},
		{"1:75.000", 0, true},
		{"x:10.000", 0, true},
		{"1:10.abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLapTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLapTime(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLapTime(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLapTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRetryAfter(t *testing.T) {
	if got := retryAfter("", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := retryAfter("3", time.Second); got != 3*time.Second {
		t.Fatalf("expected header value, got %v", got)
	}
	if got := retryAfter("Wed, 21 Oct 2015 07:28:00 GMT", time.Second); got != time.Second {
		t.Fatalf("expected fallback for http-date, got %v", got)
	}
	if got := retryAfter("3600", time.Second); got != maxRetryBackoff {
		t.Fatalf("expected cap, got %v", got)
	}
}
