package cell

import (
	"fmt"
	"math/big"

	"github.com/mariafchaparro/tma-test/address"
)

// Builder collects cell data and references. Limits are not checked on store,
// EndCell reports the overflow.
type Builder struct {
	buf BitBuffer

	// store it as slice of pointers to make indexing logic cleaner on serialize,
	// from outside it should always come as object to not have problems
	refs []*Cell
}

func BeginCell() *Builder {
	return &Builder{}
}

func (b *Builder) MustStoreCoins(value uint64) *Builder {
	err := b.StoreCoins(value)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreCoins(value uint64) error {
	return b.StoreBigCoins(new(big.Int).SetUint64(value))
}

func (b *Builder) MustStoreBigCoins(value *big.Int) *Builder {
	err := b.StoreBigCoins(value)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBigCoins(value *big.Int) error {
	// varInt 16 https://github.com/ton-blockchain/ton/blob/24dc184a2ea67f9c47042b4104bbb4d82289fac1/crypto/block/block-parse.cpp#L319
	return b.buf.WriteCoins(value)
}

func (b *Builder) StoreVarUInt(value *big.Int, lenBits uint) error {
	return b.buf.WriteVarUInt(value, lenBits)
}

func (b *Builder) MustStoreUInt(value uint64, sz uint) *Builder {
	err := b.StoreUInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreUInt(value uint64, sz uint) error {
	return b.buf.WriteUInt(value, sz)
}

func (b *Builder) MustStoreInt(value int64, sz uint) *Builder {
	err := b.StoreInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreInt(value int64, sz uint) error {
	return b.buf.WriteInt(value, sz)
}

func (b *Builder) MustStoreBoolBit(value bool) *Builder {
	b.buf.WriteBit(value)
	return b
}

func (b *Builder) StoreBoolBit(value bool) error {
	b.buf.WriteBit(value)
	return nil
}

func (b *Builder) MustStoreBigUInt(value *big.Int, sz uint) *Builder {
	err := b.StoreBigUInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBigUInt(value *big.Int, sz uint) error {
	return b.buf.WriteBigUInt(value, sz)
}

func (b *Builder) MustStoreAddr(addr *address.Address) *Builder {
	err := b.StoreAddr(addr)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreAddr(addr *address.Address) error {
	return b.buf.WriteAddress(addr)
}

func (b *Builder) MustStoreMaybeRef(ref *Cell) *Builder {
	err := b.StoreMaybeRef(ref)
	if err != nil {
		panic(err)
	}
	return b
}

// StoreMaybeRef stores 0 bit for nil, or 1 bit and reference.
func (b *Builder) StoreMaybeRef(ref *Cell) error {
	if ref == nil {
		b.buf.WriteBit(false)
		return nil
	}

	b.buf.WriteBit(true)
	return b.StoreRef(ref)
}

func (b *Builder) MustStoreRef(ref *Cell) *Builder {
	err := b.StoreRef(ref)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreRef(ref *Cell) error {
	if ref == nil {
		return ErrRefCannotBeNil
	}

	b.refs = append(b.refs, ref)
	return nil
}

func (b *Builder) MustStoreSlice(bytes []byte, sz uint) *Builder {
	err := b.StoreSlice(bytes, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreSlice(bytes []byte, sz uint) error {
	return b.buf.WriteSlice(bytes, sz)
}

func (b *Builder) MustStoreBuilder(builder *Builder) *Builder {
	err := b.StoreBuilder(builder)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBuilder(builder *Builder) error {
	if err := b.buf.WriteBuffer(&builder.buf); err != nil {
		return err
	}
	b.refs = append(b.refs, builder.refs...)
	return nil
}

func (b *Builder) RefsUsed() int {
	return len(b.refs)
}

func (b *Builder) BitsUsed() uint {
	return b.buf.BitLen()
}

// BitsLeft returns 0 when the builder already overflows.
func (b *Builder) BitsLeft() uint {
	if b.buf.BitLen() > MaxBits {
		return 0
	}
	return MaxBits - b.buf.BitLen()
}

func (b *Builder) RefsLeft() uint {
	if len(b.refs) > MaxRefs {
		return 0
	}
	return MaxRefs - uint(len(b.refs))
}

func (b *Builder) MustEndCell() *Cell {
	c, err := b.EndCell()
	if err != nil {
		panic(err)
	}
	return c
}

// EndCell snapshots collected data into a new cell, the builder can be reused after.
func (b *Builder) EndCell() (*Cell, error) {
	if b.buf.BitLen() > MaxBits {
		return nil, fmt.Errorf("%w: %d bits", ErrNotFit1023, b.buf.BitLen())
	}

	if len(b.refs) > MaxRefs {
		return nil, fmt.Errorf("%w: %d refs", ErrTooMuchRefs, len(b.refs))
	}

	return &Cell{
		bitsSz: b.buf.BitLen(),
		data:   b.buf.Bytes(),
		refs:   append([]*Cell{}, b.refs...),
	}, nil
}
