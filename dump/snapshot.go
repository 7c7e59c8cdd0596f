package dump

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/starfederation/lispobj"
)

// SnapshotVersion is the snapshot format written by Marshal.
const SnapshotVersion = 1

// ErrChecksum is returned when a snapshot's words do not match its checksum.
var ErrChecksum = errors.New("snapshot checksum mismatch")

// Snapshot is a list of words together with the layout they were taken
// under.
type Snapshot struct {
	Version  int            `cbor:"1,keyasint"`
	Config   lispobj.Config `cbor:"2,keyasint"`
	Words    []uint64       `cbor:"3,keyasint"`
	Checksum uint32         `cbor:"4,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dump: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// NewSnapshot records words taken under cfg.
func NewSnapshot(cfg lispobj.Config, words []lispobj.Object) *Snapshot {
	s := &Snapshot{
		Version: SnapshotVersion,
		Config:  cfg,
		Words:   make([]uint64, len(words)),
	}
	for i, w := range words {
		s.Words[i] = uint64(w)
	}
	s.Checksum = checksumWords(s.Words)
	return s
}

// Objects returns the snapshot's words.
func (s *Snapshot) Objects() []lispobj.Object {
	out := make([]lispobj.Object, len(s.Words))
	for i, w := range s.Words {
		out[i] = lispobj.Object(w)
	}
	return out
}

// Layout derives the layout the words were taken under.
func (s *Snapshot) Layout() (*lispobj.Layout, error) {
	return lispobj.NewLayout(s.Config)
}

// Marshal serializes s as canonical CBOR.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal decodes a snapshot and verifies its version, layout, and
// checksum.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("dump: unmarshal snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("dump: unsupported snapshot version %d", s.Version)
	}
	if err := s.Config.Validate(); err != nil {
		return nil, fmt.Errorf("dump: snapshot layout: %w", err)
	}
	if got := checksumWords(s.Words); got != s.Checksum {
		return nil, fmt.Errorf("dump: %w: stored %#08x, computed %#08x", ErrChecksum, s.Checksum, got)
	}
	return &s, nil
}
