package proptype

import "testing"

func TestCopyStringAlwaysOwned(t *testing.T) {
	cases := []struct {
		name string
		src  String
		dst  String
	}{
		{"borrowed into empty", NewBorrowedString("hello"), String{}},
		{"owned into owned", NewOwnedString("abc"), NewOwnedString("xyz")},
		{"empty into owned", String{}, NewOwnedString("longer-previous-value")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dst := tc.dst
			CopyString(&dst, tc.src)
			if !dst.IsOwned() {
				t.Fatalf("dst not owned after CopyString")
			}
			if dst.String() != tc.src.String() {
				t.Fatalf("dst=%q want %q", dst.String(), tc.src.String())
			}
			if err := dst.Validate(); err != nil {
				t.Fatalf("dst invalid: %v", err)
			}
		})
	}
}

func TestCopyStringEmptySourceYieldsOneByteBuffer(t *testing.T) {
	var dst String
	CopyString(&dst, String{})
	if dst.Len() != 1 {
		t.Fatalf("Len()=%d want 1", dst.Len())
	}
	if !dst.IsEmpty() {
		t.Fatalf("expected empty logical value")
	}
}

func TestValidateRejectsZeroLengthBuffer(t *testing.T) {
	var s String
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for zero-length buffer")
	}
}

func TestCopyStringReusesCapacityOnShorterFit(t *testing.T) {
	dst := NewOwnedString("a very long previous value indeed")
	prevCap := cap(dst.data)
	CopyString(&dst, NewOwnedString("short"))
	if cap(dst.data) != prevCap {
		t.Fatalf("expected buffer reuse, cap changed from %d to %d", prevCap, cap(dst.data))
	}
	if dst.String() != "short" {
		t.Fatalf("dst=%q want short", dst.String())
	}
}
