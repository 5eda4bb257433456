package normalize

import (
	"errors"
	"testing"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func TestEmptyAsNil(t *testing.T) {
	if got := EmptyAsNil(""); got != nil {
		t.Errorf("expected nil, got %q", *got)
	}
	if got := EmptyAsNil("12+"); got == nil || *got != "12+" {
		t.Errorf("expected 12+, got %v", got)
	}
}

func TestSentinelAsNil(t *testing.T) {
	tc := []struct {
		in   string
		want *string
	}{
		{in: "-", want: nil},
		{in: "", want: nil},
		{in: "©SEGA", want: ptr("©SEGA")},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SentinelAsNil(tt.in, "-")); diff != "" {
				t.Errorf("SentinelAsNil(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestZeroAsNil(t *testing.T) {
	if got := ZeroAsNil(0); got != nil {
		t.Errorf("expected nil for zero, got %d", *got)
	}
	if got := ZeroAsNil(12); got == nil || *got != 12 {
		t.Errorf("expected 12, got %v", got)
	}
}

func TestCollapse(t *testing.T) {
	type worldsEnd struct {
		Kanji string
		Star  string
	}
	type levels struct {
		Basic  *string
		Master *string
	}

	t.Run("all default collapses", func(t *testing.T) {
		if got := Collapse(worldsEnd{}); got != nil {
			t.Errorf("expected nil, got %+v", *got)
		}
		if got := Collapse(levels{}); got != nil {
			t.Errorf("expected nil, got %+v", *got)
		}
	})

	t.Run("one populated field keeps the value", func(t *testing.T) {
		got := Collapse(worldsEnd{Kanji: "狂"})
		if got == nil {
			t.Fatal("expected value, got nil")
		}
		if got.Kanji != "狂" || got.Star != "" {
			t.Errorf("unexpected value %+v", *got)
		}

		gotLevels := Collapse(levels{Master: ptr("14")})
		if gotLevels == nil || gotLevels.Basic != nil || *gotLevels.Master != "14" {
			t.Errorf("unexpected levels %+v", gotLevels)
		}
	})
}

func TestBinaryBool(t *testing.T) {
	tc := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: "1", want: true},
		{in: "0", want: false},
		{in: "", wantErr: true},
		{in: "yes", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := BinaryBool(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrDecode) {
					t.Fatalf("expected decode error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BinaryBool(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenBool(t *testing.T) {
	tc := []struct {
		name    string
		in      string
		token   string
		want    bool
		wantErr bool
	}{
		{name: "new flag", in: "NEW", token: "NEW", want: true},
		{name: "empty new flag", in: "", token: "NEW", want: false},
		{name: "lock glyph", in: "○", token: "○", want: true},
		{name: "unknown token", in: "OLD", token: "NEW", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenBool(tt.in, tt.token)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrDecode) {
					t.Fatalf("expected decode error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("TokenBool(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	t.Run("zero sentinel is nil", func(t *testing.T) {
		got, err := Date("000000", "000000", "060102")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("short year layout", func(t *testing.T) {
		got, err := Date("240315", "000000", "060102")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := models.Date{Year: 2024, Month: 3, Day: 15}
		if got == nil || *got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("long year layout", func(t *testing.T) {
		got, err := Date("20190201", "", "20060102")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.String() != "2019-02-01" {
			t.Errorf("expected 2019-02-01, got %s", got)
		}
	})

	t.Run("unparseable value", func(t *testing.T) {
		if _, err := Date("24-03-15", "000000", "060102"); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}

func TestBitflags(t *testing.T) {
	taxonomy := []string{"virtual", "social", "pops", "touhou", "variety", "original"}

	tc := []struct {
		name string
		mask uint32
		want []string
	}{
		{name: "no bits", mask: 0, want: nil},
		{name: "bits 0 and 2", mask: 0b101, want: []string{"virtual", "pops"}},
		{name: "highest defined bit", mask: 1 << 5, want: []string{"original"}},
		{name: "bits outside taxonomy ignored", mask: 1<<6 | 1<<1, want: []string{"social"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Bitflags(tt.mask, taxonomy)); diff != "" {
				t.Errorf("Bitflags(%b) mismatch (-want +got):\n%s", tt.mask, diff)
			}
		})
	}
}

func ptr(s string) *string { return &s }
