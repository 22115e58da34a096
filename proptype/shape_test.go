package proptype

import "testing"

func TestBytesOfTypeAllKnownPositive(t *testing.T) {
	types := []SampleType{U8, U16, I8, I16, F32, U10, U12, U14}
	for _, ty := range types {
		n, err := BytesOfType(ty)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", ty, err)
		}
		if n <= 0 {
			t.Fatalf("%v: bytes=%d want >0", ty, n)
		}
	}
}

func TestBytesOfTypeUnknownFailsLoudly(t *testing.T) {
	if _, err := BytesOfType(SampleType(999)); err == nil {
		t.Fatal("expected error for unknown sample type")
	}
}

func TestPackedTypesAreTwoBytes(t *testing.T) {
	for _, ty := range []SampleType{U10, U12, U14} {
		n, err := BytesOfType(ty)
		if err != nil {
			t.Fatalf("%v: %v", ty, err)
		}
		if n != 2 {
			t.Fatalf("%v: bytes=%d want 2", ty, n)
		}
		if !IsPacked(ty) {
			t.Fatalf("%v: want IsPacked", ty)
		}
	}
}

func TestBytesOfImageMatchesStridesTimesWidth(t *testing.T) {
	for _, ty := range []SampleType{U8, U16, I8, I16, F32, U10, U12, U14} {
		shape := NewImageShape(33, 47, ty)
		if err := shape.Validate(); err != nil {
			t.Fatalf("%v: invalid shape: %v", ty, err)
		}
		width, _ := BytesOfType(ty)
		got, err := BytesOfImage(shape)
		if err != nil {
			t.Fatalf("%v: %v", ty, err)
		}
		want := shape.Strides.Plane * width
		if got != want {
			t.Fatalf("%v: BytesOfImage=%d want %d", ty, got, want)
		}
	}
}

func TestShapeInvariantViolation(t *testing.T) {
	shape := NewImageShape(10, 10, U8)
	shape.Strides.Plane = 5 // break channels*height*row_stride invariant
	if err := shape.Validate(); err == nil {
		t.Fatal("expected invariant violation error")
	}
}

func TestAlignUp(t *testing.T) {
	cases := []struct{ n, align, want uint64 }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{uint64(HeaderSize + 33*47), 8, 1624},
	}
	for _, tc := range cases {
		got := AlignUp(tc.n, tc.align)
		if got != tc.want {
			t.Fatalf("AlignUp(%d,%d)=%d want %d", tc.n, tc.align, got, tc.want)
		}
		if got%tc.align != 0 {
			t.Fatalf("AlignUp(%d,%d)=%d not a multiple of %d", tc.n, tc.align, got, tc.align)
		}
	}
}
