package cell

import (
	"fmt"
	"math/big"

	"github.com/mariafchaparro/tma-test/address"
)

// Slice reads cell fields in the order they were stored.
type Slice struct {
	bitsSz   uint
	loadedSz uint
	data     []byte

	refs []*Cell
}

func (c *Slice) MustLoadRef() *Slice {
	r, err := c.LoadRef()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadRef() (*Slice, error) {
	ref, err := c.LoadRefCell()
	if err != nil {
		return nil, err
	}
	return ref.BeginParse(), nil
}

func (c *Slice) LoadRefCell() (*Cell, error) {
	if len(c.refs) == 0 {
		return nil, ErrNoMoreRefs
	}
	ref := c.refs[0]
	c.refs = c.refs[1:]

	return ref, nil
}

func (c *Slice) LoadMaybeRef() (*Slice, error) {
	has, err := c.LoadBoolBit()
	if err != nil {
		return nil, err
	}

	if !has {
		return nil, nil
	}
	return c.LoadRef()
}

func (c *Slice) RefsNum() int {
	return len(c.refs)
}

func (c *Slice) MustLoadCoins() uint64 {
	r, err := c.LoadCoins()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadCoins() (uint64, error) {
	value, err := c.LoadBigCoins()
	if err != nil {
		return 0, err
	}
	if !value.IsUint64() {
		return 0, ErrTooBigValue
	}
	return value.Uint64(), nil
}

func (c *Slice) MustLoadBigCoins() *big.Int {
	r, err := c.LoadBigCoins()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadBigCoins() (*big.Int, error) {
	return c.LoadVarUInt(4)
}

// LoadVarUInt reads value written by BitBuffer.WriteVarUInt with the same lenBits.
func (c *Slice) LoadVarUInt(lenBits uint) (*big.Int, error) {
	ln, err := c.LoadUInt(lenBits)
	if err != nil {
		return nil, err
	}
	return c.LoadBigUInt(uint(ln * 8))
}

func (c *Slice) MustLoadUInt(sz uint) uint64 {
	res, err := c.LoadUInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadUInt(sz uint) (uint64, error) {
	if sz > 64 {
		return 0, ErrTooBigSize
	}

	res, err := c.LoadBigUInt(sz)
	if err != nil {
		return 0, err
	}
	return res.Uint64(), nil
}

func (c *Slice) MustLoadInt(sz uint) int64 {
	res, err := c.LoadInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadInt(sz uint) (int64, error) {
	if sz == 0 || sz > 64 {
		return 0, ErrTooBigSize
	}

	u, err := c.LoadBigUInt(sz)
	if err != nil {
		return 0, err
	}

	// highest bit is sign
	if u.Bit(int(sz-1)) == 1 {
		u.Sub(u, new(big.Int).Lsh(big.NewInt(1), sz))
	}
	return u.Int64(), nil
}

func (c *Slice) MustLoadBoolBit() bool {
	r, err := c.LoadBoolBit()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadBoolBit() (bool, error) {
	if c.BitsLeft() < 1 {
		return false, ErrNotEnoughData(0, 1)
	}
	return c.loadBit(), nil
}

func (c *Slice) MustLoadBigUInt(sz uint) *big.Int {
	r, err := c.LoadBigUInt(sz)
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadBigUInt(sz uint) (*big.Int, error) {
	b, err := c.LoadSlice(sz)
	if err != nil {
		return nil, err
	}

	// move bits to right side of bytes
	v := new(big.Int).SetBytes(b)
	return v.Rsh(v, uint(len(b))*8-sz), nil
}

func (c *Slice) MustLoadSlice(sz uint) []byte {
	s, err := c.LoadSlice(sz)
	if err != nil {
		panic(err)
	}
	return s
}

// LoadSlice returns sz bits aligned to the left, unused bits of the last byte are zero.
func (c *Slice) LoadSlice(sz uint) ([]byte, error) {
	if c.BitsLeft() < sz {
		return nil, ErrNotEnoughData(int(c.BitsLeft()), int(sz))
	}

	res := make([]byte, (sz+7)/8)
	for i := uint(0); i < sz; i++ {
		if c.loadBit() {
			res[i/8] |= 0x80 >> (i % 8)
		}
	}
	return res, nil
}

func (c *Slice) loadBit() bool {
	bit := c.data[c.loadedSz/8]&(0x80>>(c.loadedSz%8)) != 0
	c.loadedSz++
	return bit
}

func (c *Slice) MustLoadAddr() *address.Address {
	a, err := c.LoadAddr()
	if err != nil {
		panic(err)
	}
	return a
}

// LoadAddr reads addr_std, nil is returned for addr_none.
// Flags are not stored in cells, so the result is bounceable and not testnet-only.
func (c *Slice) LoadAddr() (*address.Address, error) {
	typ, err := c.LoadUInt(2)
	if err != nil {
		return nil, err
	}

	switch typ {
	case 0b00:
		return nil, nil
	case 0b10:
		isAnycast, err := c.LoadBoolBit()
		if err != nil {
			return nil, fmt.Errorf("failed to load anycast bit: %w", err)
		}
		if isAnycast {
			return nil, fmt.Errorf("%w: anycast", ErrAddressTypeNotSupported)
		}

		workchain, err := c.LoadInt(8)
		if err != nil {
			return nil, fmt.Errorf("failed to load workchain: %w", err)
		}

		data, err := c.LoadSlice(256)
		if err != nil {
			return nil, fmt.Errorf("failed to load addr data: %w", err)
		}

		return address.NewAddress(0x11, byte(workchain), data), nil
	default:
		return nil, fmt.Errorf("%w: type %02b", ErrAddressTypeNotSupported, typ)
	}
}

func (c *Slice) BitsLeft() uint {
	return c.bitsSz - c.loadedSz
}

func (c *Slice) RestBits() (uint, []byte, error) {
	left := c.BitsLeft()
	data, err := c.LoadSlice(left)
	return left, data, err
}
