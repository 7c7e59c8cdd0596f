package lispobj

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/BurntSushi/toml"
)

// Config describes the host build the words come from.
type Config struct {
	// WordBytes is the size of EMACS_INT in bytes (4 or 8).
	WordBytes int `toml:"word-bytes" cbor:"1,keyasint"`
	// GCTypeBits is the number of tag bits in every word.
	GCTypeBits int `toml:"gc-type-bits" cbor:"2,keyasint"`
	// LSBTag selects low-order tag bits. When false the tag occupies the
	// high-order bits of the word.
	LSBTag bool `toml:"lsb-tag" cbor:"3,keyasint"`
}

// DefaultConfig returns the configuration matching the running process.
func DefaultConfig() Config {
	return Config{
		WordBytes:  int(unsafe.Sizeof(uintptr(0))),
		GCTypeBits: 3,
		LSBTag:     true,
	}
}

// NarrowConfig returns a 32-bit word configuration with low-order tags.
func NarrowConfig() Config {
	return Config{WordBytes: 4, GCTypeBits: 3, LSBTag: true}
}

// WideConfig returns a 64-bit word configuration with low-order tags.
func WideConfig() Config {
	return Config{WordBytes: 8, GCTypeBits: 3, LSBTag: true}
}

// Validate reports whether c describes a layout this package can derive.
func (c Config) Validate() error {
	if c.WordBytes != 4 && c.WordBytes != 8 {
		return fmt.Errorf("word size must be 4 or 8 bytes, got %d", c.WordBytes)
	}
	// Eight tag codes are enumerated, which fixes the width at three bits.
	if c.GCTypeBits != 3 {
		return fmt.Errorf("gc type bits must be 3, got %d", c.GCTypeBits)
	}
	return nil
}

// String renders c the way the CLI prints it.
func (c Config) String() string {
	mode := "msb"
	if c.LSBTag {
		mode = "lsb"
	}
	return fmt.Sprintf("%d-bit/%s/%d tag bits", c.WordBytes*8, mode, c.GCTypeBits)
}

// ParseConfig decodes a TOML configuration. Keys missing from data keep
// their DefaultConfig values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse config: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the TOML configuration at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
