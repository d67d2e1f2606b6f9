package conv

import "testing"

func TestItoa(t *testing.T) {
	var buf [20]byte
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{90, "90"},
		{-45, "-45"},
		{2500, "2500"},
		{-9223372036854775808, "-9223372036854775808"},
	}
	for _, c := range cases {
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Errorf("Itoa(%d)=%q, want %q", c.n, got, c.want)
		}
	}
}

func TestUtoa(t *testing.T) {
	var buf [20]byte
	if got := string(Utoa(buf[:], 18446744073709551615)); got != "18446744073709551615" {
		t.Fatalf("Utoa(max)=%q", got)
	}
	if got := string(Utoa(buf[:], 0)); got != "0" {
		t.Fatalf("Utoa(0)=%q", got)
	}
}

func TestU32Hex(t *testing.T) {
	var buf [8]byte
	if got := string(U32Hex(buf[:], 0x20DF10EF)); got != "20DF10EF" {
		t.Fatalf("U32Hex=%q", got)
	}
	if got := string(U32Hex(buf[:], 0)); got != "00000000" {
		t.Fatalf("U32Hex(0)=%q", got)
	}
}

func TestAtoi(t *testing.T) {
	cases := []struct {
		s  string
		n  int
		ok bool
	}{
		{"0", 0, true},
		{"90", 90, true},
		{"-45", -45, true},
		{"+180", 180, true},
		{"", 0, false},
		{"-", 0, false},
		{"12x", 0, false},
		{"9999999999999", 0, false},
	}
	for _, c := range cases {
		n, ok := Atoi(c.s)
		if n != c.n || ok != c.ok {
			t.Errorf("Atoi(%q)=(%d,%v), want (%d,%v)", c.s, n, ok, c.n, c.ok)
		}
	}
}

func TestStrForms(t *testing.T) {
	if ItoaStr(-7) != "-7" || UtoaStr(42) != "42" {
		t.Fatal("string helpers disagree with buffer forms")
	}
}
