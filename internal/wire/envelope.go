package wire

import (
	"bytes"
	"encoding/binary"
)

const entryVersion byte = 1

var entryMagic = [...]byte{'B', 'K', 'P', 'O'}

const entryHeader = 4 + 1 + IntSize + IntSize + PrefixSize

// Outbox entry: magic(4) | ver(1) | id(i32 be) | tag(i32 be) | plen(i32 be) | payload(plen)
func EncodeEntry(id, tag int32, payload []byte) ([]byte, error) {
	b := make([]byte, 0, entryHeader+len(payload))
	b = append(b, entryMagic[:]...)
	b = append(b, entryVersion)
	b = AppendInt32(b, id)
	b = AppendInt32(b, tag)
	return AppendBytes(b, payload)
}

// DecodeEntry validates the envelope and returns a payload aliasing b.
// Trailing bytes after the payload are treated as corruption.
func DecodeEntry(b []byte) (id, tag int32, payload []byte, err error) {
	if len(b) < entryHeader || !bytes.Equal(b[:4], entryMagic[:]) || b[4] != entryVersion {
		return 0, 0, nil, ErrCorrupt
	}
	off := 5
	id = int32(binary.BigEndian.Uint32(b[off:]))
	off += IntSize
	tag = int32(binary.BigEndian.Uint32(b[off:]))
	off += IntSize

	payload, n, perr := ReadBytes(b, off)
	if perr != nil || off+n != len(b) {
		return 0, 0, nil, ErrCorrupt
	}
	return id, tag, payload, nil
}
