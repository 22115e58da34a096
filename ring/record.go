package ring

import "encoding/binary"

// recordPrefixSize is the ring's own framing overhead: an 8-byte length
// field prepended to every record, real or padding.
const recordPrefixSize = 8

// padFlag marks a record as padding-only (skip, no payload) by setting the
// top bit of the 8-byte length prefix. The ring's capacity is bounded well
// under 2^63 bytes, so this never collides with a real length.
const padFlag = uint64(1) << 63

func putRecordPrefix(buf []byte, totalLen uint64, isPad bool) {
	v := totalLen
	if isPad {
		v |= padFlag
	}
	binary.LittleEndian.PutUint64(buf, v)
}

func readRecordPrefix(buf []byte) (totalLen uint64, isPad bool) {
	v := binary.LittleEndian.Uint64(buf)
	isPad = v&padFlag != 0
	return v &^ padFlag, isPad
}
