package proptype

import "testing"

func TestCopyStoragePropertiesIdempotent(t *testing.T) {
	src := StorageProperties{
		URI:                  NewBorrowedString("file:///tmp/out.tif"),
		ExternalMetadataJSON: NewBorrowedString(`{"k":"v"}`),
		Dimensions:           NewDimensionArray(1),
		Multiscale:           true,
	}
	_ = src.Dimensions.Set(0, "t", DimensionTime, 100, 10, 1)

	var dst StorageProperties
	CopyStorageProperties(&dst, src)
	CopyStorageProperties(&dst, dst) // idempotence: copying dst into itself

	if !dst.URI.IsOwned() || dst.URI.String() != "file:///tmp/out.tif" {
		t.Fatalf("unexpected URI after idempotent copy: %+v", dst.URI)
	}
	if dst.Dimensions.At(0).Name.String() != "t" {
		t.Fatalf("dimension lost across idempotent copy")
	}
	if !dst.Multiscale {
		t.Fatal("multiscale flag lost across copy")
	}
}

func TestNormalizeURIStripsFilePrefix(t *testing.T) {
	cases := []struct {
		in, want string
		had      bool
	}{
		{"file:///data/out.tif", "/data/out.tif", true},
		{"/data/out.tif", "/data/out.tif", false},
		{"file://relative/path", "relative/path", true},
	}
	for _, tc := range cases {
		got, had := NormalizeURI(tc.in)
		if got != tc.want || had != tc.had {
			t.Fatalf("NormalizeURI(%q) = (%q,%v) want (%q,%v)", tc.in, got, had, tc.want, tc.had)
		}
	}
}
