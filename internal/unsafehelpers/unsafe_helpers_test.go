package unsafehelpers

import "testing"

func TestRoundUpPow2(t *testing.T) {
    cases := map[int]int{
        1:    1,
        2:    2,
        3:    4,
        5:    8,
        1023: 1024,
        1024: 1024,
    }
    for in, want := range cases {
        if got := RoundUpPow2(in); got != want {
            t.Errorf("RoundUpPow2(%d) = %d, want %d", in, got, want)
        }
    }
}

func TestAlignUp(t *testing.T) {
    if got := AlignUp(9, 8); got != 16 {
        t.Errorf("AlignUp(9, 8) = %d, want 16", got)
    }
    if got := AlignUp(8, 8); got != 8 {
        t.Errorf("AlignUp(8, 8) = %d, want 8", got)
    }
}

func TestBytesToStringStringToBytesRoundTrip(t *testing.T) {
    b := []byte("hello nstl")
    s := BytesToString(b)
    if s != "hello nstl" {
        t.Fatalf("BytesToString: got %q", s)
    }
    back := StringToBytes(s)
    if string(back) != "hello nstl" {
        t.Fatalf("StringToBytes: got %q", back)
    }
}
