package model

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ObjectID is the 12-byte identifier assigned by the document store on insert.
// Layout: 4-byte big-endian unix seconds, 5-byte process-unique random value, 3-byte counter.
// Its canonical string form is 24 lowercase hex characters.
type ObjectID [12]byte

// NilObjectID is the zero value.
var NilObjectID ObjectID

// ErrInvalidObjectID is returned when a string is not a 24-character hex identifier.
var ErrInvalidObjectID = errors.New("invalid object id")

var (
	processUnique = readProcessUnique()
	idCounter     = readCounterSeed()
)

// NewObjectID generates a new identifier for the current time.
func NewObjectID() ObjectID {
	return newObjectIDAt(time.Now())
}

func newObjectIDAt(t time.Time) ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(t.Unix()))
	copy(id[4:9], processUnique[:])
	c := atomic.AddUint32(&idCounter, 1)
	id[9] = byte(c >> 16)
	id[10] = byte(c >> 8)
	id[11] = byte(c)
	return id
}

// ObjectIDFromHex parses the canonical 24-character hex form.
func ObjectIDFromHex(s string) (ObjectID, error) {
	if len(s) != 24 {
		return NilObjectID, fmt.Errorf("%w: %q", ErrInvalidObjectID, s)
	}
	var id ObjectID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return NilObjectID, fmt.Errorf("%w: %q", ErrInvalidObjectID, s)
	}
	return id, nil
}

// Hex returns the 24-character hex encoding.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ObjectID) String() string {
	return id.Hex()
}

// IsZero reports whether id is NilObjectID.
func (id ObjectID) IsZero() bool {
	return id == NilObjectID
}

// Timestamp returns the creation second encoded in the identifier.
func (id ObjectID) Timestamp() time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(id[0:4])), 0).UTC()
}

func (id ObjectID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.Hex() + `"`), nil
}

func (id *ObjectID) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidObjectID, b)
	}
	parsed, err := ObjectIDFromHex(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func readProcessUnique() [5]byte {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Errorf("model: cannot initialize object id generator: %w", err))
	}
	return b
}

func readCounterSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Errorf("model: cannot initialize object id counter: %w", err))
	}
	return binary.BigEndian.Uint32(b[:])
}
