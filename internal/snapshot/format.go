// Package snapshot implements the full-state round-trip described in spec
// §4.9: a custom binary stream with a magic/version header (the teacher's
// storage idiom, see DESIGN.md), written to a temp file and atomically
// renamed over the final path so readers never observe a partial write.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies a dogpark-server snapshot file.
var magic = [4]byte{'D', 'O', 'G', 'S'}

// FormatVersion is bumped whenever the on-disk layout changes in a way old
// readers can't tolerate. Exported so /api/v1/version can report which
// snapshot layout a running server reads and writes.
const FormatVersion uint32 = 1

func writeHeader(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, FormatVersion)
}

func readHeader(r io.Reader) error {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return fmt.Errorf("snapshot: read magic: %w", err)
	}
	if got != magic {
		return fmt.Errorf("snapshot: bad magic %x, expected %x", got, magic)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("snapshot: read version: %w", err)
	}
	if version != FormatVersion {
		return fmt.Errorf("snapshot: unsupported version %d", version)
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeFloat64(w io.Writer, v float64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readFloat64(r io.Reader) (float64, error) {
	var v float64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeUint64(w io.Writer, v uint64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readUint64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeUint32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readUint32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeBool(w io.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// bufferedWriter and bufferedReader keep the many small binary.Write/Read
// calls in Save/Load from making one syscall each.
func bufferedWriter(w io.Writer) *bufio.Writer { return bufio.NewWriter(w) }
func bufferedReader(r io.Reader) *bufio.Reader { return bufio.NewReader(r) }
