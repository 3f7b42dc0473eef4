package utils

import (
	"math/big"
	"strings"
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "he..."},
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"", 5, ""},
		{"abc", 2, "ab"},
		{"abc", 3, "abc"},
	}

	for _, tt := range tests {
		result := TruncateString(tt.input, tt.length)
		if result != tt.expected {
			t.Errorf("TruncateString(%q, %d) = %q; want %q", tt.input, tt.length, result, tt.expected)
		}
	}
}

func TestShortAddress(t *testing.T) {
	got := ShortAddress("0x7f2bD97D3875CC1028e095b20D251f46EBaf9762")
	if got != "0x7f2b...9762" {
		t.Errorf("ShortAddress() = %q", got)
	}
	if got := ShortAddress("0x12"); got != "0x12" {
		t.Errorf("ShortAddress() = %q; want unchanged", got)
	}
}

func TestAddCommas(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
		{"1234.56", "1,234.56"},
		{"-1234", "-1,234"},
		{"", ""},
	}

	for _, tt := range tests {
		result := AddCommas(tt.input)
		if result != tt.expected {
			t.Errorf("AddCommas(%q) = %q; want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatUnits(t *testing.T) {
	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	tests := []struct {
		raw      *big.Int
		decimals uint8
		expected string
	}{
		{raw, 18, "1.5"},
		{big.NewInt(0), 18, "0"},
		{big.NewInt(500000000), 6, "500"},
		{big.NewInt(1), 18, "0.000000000000000001"},
		{big.NewInt(12345), 0, "12345"},
		{nil, 18, "0"},
	}

	for _, tt := range tests {
		result := FormatUnits(tt.raw, tt.decimals)
		if result != tt.expected {
			t.Errorf("FormatUnits(%v, %d) = %q; want %q", tt.raw, tt.decimals, result, tt.expected)
		}
	}
}

func TestParseUnits(t *testing.T) {
	two, _ := new(big.Int).SetString("2000000000000000000", 10)
	tests := []struct {
		amount   string
		decimals uint8
		expected *big.Int
		wantErr  bool
	}{
		{"2.0", 18, two, false},
		{" 2 ", 18, two, false},
		{"0.5", 6, big.NewInt(500000), false},
		{"1.50", 1, big.NewInt(15), false},
		{"0", 18, big.NewInt(0), false},
		{"0.0000001", 6, nil, true},
		{"-1", 18, nil, true},
		{"abc", 18, nil, true},
		{"", 18, nil, true},
		{"0e2147483640", 18, big.NewInt(0), false},
		{"1e77", 18, nil, true},
	}

	for _, tt := range tests {
		result, err := ParseUnits(tt.amount, tt.decimals)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseUnits(%q, %d) expected error, got %v", tt.amount, tt.decimals, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseUnits(%q, %d) unexpected error: %v", tt.amount, tt.decimals, err)
			continue
		}
		if result.Cmp(tt.expected) != 0 {
			t.Errorf("ParseUnits(%q, %d) = %s; want %s", tt.amount, tt.decimals, result, tt.expected)
		}
	}
}

func TestParseUnits_HugeExponent(t *testing.T) {
	for _, amount := range []string{"1e2147483640", "1e79", "1e60"} {
		_, err := ParseUnits(amount, 18)
		if err == nil || !strings.Contains(err.Error(), "out of range") {
			t.Errorf("ParseUnits(%q, 18) error = %v; want out of range", amount, err)
		}
	}
}
