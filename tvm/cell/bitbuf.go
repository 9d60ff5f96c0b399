package cell

import (
	"encoding/binary"
	"math/big"

	"github.com/mariafchaparro/tma-test/address"
)

// BitBuffer is an append-only bit writer, bits are packed from the most significant one.
// It has no size limit, cell limits are checked when the cell is finalized.
type BitBuffer struct {
	bitsSz uint
	data   []byte
}

func (b *BitBuffer) WriteBit(bit bool) {
	if b.bitsSz%8 == 0 {
		b.data = append(b.data, 0)
	}
	if bit {
		b.data[len(b.data)-1] |= 0x80 >> (b.bitsSz % 8)
	}
	b.bitsSz++
}

// WriteUInt writes value using exactly sz bits.
func (b *BitBuffer) WriteUInt(value uint64, sz uint) error {
	if sz > 64 {
		return b.WriteBigUInt(new(big.Int).SetUint64(value), sz)
	}

	if sz < 64 && value>>sz != 0 {
		return ErrTooBigValue
	}

	if sz == 0 {
		return nil
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value<<(64-sz))

	return b.WriteSlice(buf, sz)
}

// WriteInt writes value as two's complement integer of sz bits.
func (b *BitBuffer) WriteInt(value int64, sz uint) error {
	if sz == 0 || sz > 64 {
		return ErrTooBigSize
	}

	if sz < 64 {
		limit := int64(1) << (sz - 1)
		if value < -limit || value >= limit {
			return ErrTooBigValue
		}
		return b.WriteUInt(uint64(value)&(1<<sz-1), sz)
	}
	return b.WriteUInt(uint64(value), sz)
}

func (b *BitBuffer) WriteBigUInt(value *big.Int, sz uint) error {
	if value.Sign() < 0 {
		return ErrNegative
	}

	if uint(value.BitLen()) > sz {
		return ErrTooBigValue
	}

	if sz == 0 {
		return nil
	}

	// align value to the left side of the bytes
	buf := make([]byte, (sz+7)/8)
	pad := uint(len(buf))*8 - sz
	new(big.Int).Lsh(value, pad).FillBytes(buf)

	return b.WriteSlice(buf, sz)
}

// WriteVarUInt writes length prefix of lenBits bits with the number of bytes,
// and then value in this number of bytes. Zero is stored as prefix only.
func (b *BitBuffer) WriteVarUInt(value *big.Int, lenBits uint) error {
	if value.Sign() < 0 {
		return ErrNegative
	}

	if lenBits == 0 || lenBits > 8 {
		return ErrTooBigSize
	}

	ln := uint(value.BitLen()+7) / 8
	if ln > 1<<lenBits-1 {
		return ErrTooBigValue
	}

	if err := b.WriteUInt(uint64(ln), lenBits); err != nil {
		return err
	}
	return b.WriteBigUInt(value, ln*8)
}

// WriteCoins writes VarUInteger 16, as used for grams and jetton amounts.
func (b *BitBuffer) WriteCoins(value *big.Int) error {
	return b.WriteVarUInt(value, 4)
}

// WriteAddress writes addr_std without anycast, nil address is written as addr_none.
func (b *BitBuffer) WriteAddress(addr *address.Address) error {
	if addr == nil {
		return b.WriteUInt(0b00, 2)
	}

	if len(addr.Data()) != 32 {
		return ErrAddressTypeNotSupported
	}

	b.WriteBit(true)
	b.WriteBit(false)
	// anycast
	b.WriteBit(false)

	if err := b.WriteInt(int64(addr.Workchain()), 8); err != nil {
		return err
	}
	return b.WriteSlice(addr.Data(), 256)
}

func (b *BitBuffer) WriteSlice(bytes []byte, sz uint) error {
	if uint(len(bytes)) < (sz+7)/8 {
		return ErrSmallSlice
	}

	if b.bitsSz%8 == 0 {
		full := sz / 8
		b.data = append(b.data, bytes[:full]...)
		if rest := sz % 8; rest > 0 {
			// clear unused part of byte
			b.data = append(b.data, bytes[full]&(0xFF<<(8-rest)))
		}
		b.bitsSz += sz
		return nil
	}

	for i := uint(0); i < sz; i++ {
		b.WriteBit(bytes[i/8]&(0x80>>(i%8)) != 0)
	}
	return nil
}

func (b *BitBuffer) WriteBuffer(buf *BitBuffer) error {
	return b.WriteSlice(buf.data, buf.bitsSz)
}

func (b *BitBuffer) BitLen() uint {
	return b.bitsSz
}

// Bytes returns copy of written data, last byte is padded with zero bits.
func (b *BitBuffer) Bytes() []byte {
	return append([]byte{}, b.data...)
}
