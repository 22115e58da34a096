package proptype

import "errors"

// ErrEmptyString is returned by validation when a String carries a
// zero-length buffer. A valid owned string always carries at least the
// terminating NUL, so a zero-length buffer is never well formed.
var ErrEmptyString = errors.New("proptype: zero-length string buffer")

// String is a small sum type standing in for the C core's is_ref-tagged
// owned/borrowed buffer. Both constructors copy their argument; the owned
// flag records the provenance, and a Borrowed String must be copied with
// CopyString before it is stored in any property record.
type String struct {
	// data includes the logical bytes PLUS a terminating NUL, matching the
	// C core's "byte length including NUL" convention so round-tripping
	// through bytes_of_name style accounting stays faithful.
	data  []byte
	owned bool
}

// NewOwnedString copies s into a new owned String. An empty s yields a
// one-byte NUL-terminated owned string, matching the core's behavior for a
// null/empty source.
func NewOwnedString(s string) String {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return String{data: buf, owned: true}
}

// NewBorrowedString copies s into a new String marked as borrowed (not
// owned). It must not be stored in a long-lived property record without
// first passing through CopyString.
func NewBorrowedString(s string) String {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return String{data: buf, owned: false}
}

// CopyString copies src into dst, reusing dst's existing buffer when it is
// large enough and reallocating otherwise. After CopyString, dst always owns
// its buffer regardless of whether src was owned or borrowed.
func CopyString(dst *String, src String) {
	n := len(src.data)
	if n == 0 {
		n = 1
	}
	if cap(dst.data) >= n {
		dst.data = dst.data[:n]
	} else {
		dst.data = make([]byte, n)
	}
	if len(src.data) == 0 {
		dst.data[0] = 0
	} else {
		copy(dst.data, src.data)
	}
	dst.owned = true
}

// IsOwned reports whether s holds a private copy of its bytes.
func (s String) IsOwned() bool { return s.owned }

// Len returns the byte length of the buffer INCLUDING the terminating NUL.
func (s String) Len() int { return len(s.data) }

// Validate reports ErrEmptyString for a zero-length buffer.
func (s String) Validate() error {
	if len(s.data) == 0 {
		return ErrEmptyString
	}
	return nil
}

// String returns the logical value, with the terminating NUL stripped.
func (s String) String() string {
	if len(s.data) == 0 {
		return ""
	}
	return string(s.data[:len(s.data)-1])
}

// IsEmpty reports whether the logical value (NUL excluded) has zero length.
func (s String) IsEmpty() bool {
	return len(s.data) <= 1
}
