package object

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/multiformats/go-multihash"
	_ "github.com/multiformats/go-multihash/register/sha3"
	"github.com/multiformats/go-varint"
	"github.com/pkg/errors"

	"github.com/gitplit/gitplit/errdefs"
)

const (
	magic   = "gitplit-commit\x00"
	version = 1

	// Guards against absurd allocations when decoding a damaged record
	maxFieldLen = 1 << 31
)

// Encode returns the canonical byte encoding of c. The layout is fixed:
// magic, version byte, then uvarint length-prefixed message, timestamp,
// parent and second parent, the entry count, and finally each snapshot entry
// as path and content, ordered by path.
func Encode(c *Commit) []byte {
	var b bytes.Buffer
	b.WriteString(magic)
	b.WriteByte(version)
	writeField(&b, []byte(c.Message))
	writeField(&b, []byte(c.Timestamp))
	writeField(&b, []byte(c.Parent))
	writeField(&b, []byte(c.SecondParent))
	b.Write(varint.ToUvarint(uint64(len(c.Files))))
	for _, p := range c.Files.Paths() {
		writeField(&b, []byte(p))
		writeField(&b, c.Files[p])
	}
	return b.Bytes()
}

func writeField(b *bytes.Buffer, field []byte) {
	b.Write(varint.ToUvarint(uint64(len(field))))
	b.Write(field)
}

// Decode parses a record produced by Encode.
func Decode(data []byte) (*Commit, error) {
	r := bytes.NewReader(data)
	head := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(r, head); err != nil || string(head[:len(magic)]) != magic {
		return nil, errdefs.Integrity(errors.New("bad magic"), "decoding commit record")
	}
	if head[len(magic)] != version {
		return nil, errdefs.Integrity(errors.Errorf("version %d", head[len(magic)]),
			"decoding commit record")
	}

	var fields [4][]byte
	for i := range fields {
		f, err := readField(r)
		if err != nil {
			return nil, errdefs.Integrity(err, "decoding commit record")
		}
		fields[i] = f
	}
	c := &Commit{
		Message:      string(fields[0]),
		Timestamp:    string(fields[1]),
		Parent:       string(fields[2]),
		SecondParent: string(fields[3]),
	}

	n, err := varint.ReadUvarint(r)
	if err != nil {
		return nil, errdefs.Integrity(err, "decoding snapshot size")
	}
	c.Files = make(Snapshot)
	for i := uint64(0); i < n; i++ {
		p, err := readField(r)
		if err != nil {
			return nil, errdefs.Integrity(err, "decoding snapshot path")
		}
		content, err := readField(r)
		if err != nil {
			return nil, errdefs.Integrity(err, "decoding snapshot content for %s", p)
		}
		c.Files[string(p)] = content
	}
	if r.Len() != 0 {
		return nil, errdefs.Integrity(errors.Errorf("%d trailing bytes", r.Len()), "decoding commit record")
	}
	return c, nil
}

func readField(r *bytes.Reader) ([]byte, error) {
	n, err := varint.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > maxFieldLen || n > uint64(r.Len()) {
		return nil, errors.Errorf("field length %d exceeds record", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Hash returns the hex encoded SHA3-256 digest of data.
func Hash(data []byte) (string, error) {
	mh, err := multihash.Sum(data, multihash.SHA3_256, -1)
	if err != nil {
		return "", errdefs.Integrity(err, "hashing commit")
	}
	d, err := multihash.Decode(mh)
	if err != nil {
		return "", errdefs.Integrity(err, "decoding multihash")
	}
	return hex.EncodeToString(d.Digest), nil
}

// ID returns the commit id of c: the hash of its canonical encoding.
func ID(c *Commit) (string, error) {
	return Hash(Encode(c))
}
