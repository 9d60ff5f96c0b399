package boc

// BocFlags is the first byte after magic: has_idx, has_crc32c, has_cache_bits, 2 bits of flags, 3 bits of size.
type BocFlags struct {
	HasIndex     bool
	HasCrc32c    bool
	HasCacheBits bool
}

var Magic = []byte{0xB5, 0xEE, 0x9C, 0x72}

const (
	flagIndex     = 1 << 7
	flagCrc32c    = 1 << 6
	flagCacheBits = 1 << 5
	sizeMask      = 0b00000111
)

func ParseFlags(data byte) (BocFlags, int) {
	return BocFlags{
		HasIndex:     data&flagIndex != 0,
		HasCrc32c:    data&flagCrc32c != 0,
		HasCacheBits: data&flagCacheBits != 0,
	}, int(data & sizeMask)
}

// Serialize packs flags with the size of cell reference in bytes, sz should fit into 3 bits.
func (f BocFlags) Serialize(sz int) byte {
	b := byte(sz) & sizeMask
	if f.HasIndex {
		b |= flagIndex
	}
	if f.HasCrc32c {
		b |= flagCrc32c
	}
	if f.HasCacheBits {
		b |= flagCacheBits
	}
	return b
}
