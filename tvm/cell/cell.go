package cell

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	MaxBits = 1023
	MaxRefs = 4
)

// ErrCellOverflow is the base for data and references limit errors.
var ErrCellOverflow = errors.New("cell overflow")

var (
	ErrNotFit1023  = fmt.Errorf("%w: cell data size should fit into 1023 bits", ErrCellOverflow)
	ErrTooMuchRefs = fmt.Errorf("%w: too much refs", ErrCellOverflow)
)

var ErrTooBigValue = errors.New("too big value")
var ErrNegative = errors.New("value should be non negative")
var ErrSmallSlice = errors.New("too small slice for this size")
var ErrTooBigSize = errors.New("too big size")
var ErrRefCannotBeNil = errors.New("ref cannot be nil")
var ErrAddressTypeNotSupported = errors.New("address type is not supported")
var ErrNoMoreRefs = errors.New("no more refs exists")

var ErrNotEnoughData = func(has, need int) error {
	return fmt.Errorf("not enough data in reader, need %d, has %d", need, has)
}

type Cell struct {
	bitsSz uint
	data   []byte

	refs []*Cell
}

func (c *Cell) BeginParse() *Slice {
	return &Slice{
		bitsSz: c.bitsSz,
		data:   c.data,
		refs:   c.refs,
	}
}

func (c *Cell) BitsSize() uint {
	return c.bitsSz
}

func (c *Cell) RefsNum() int {
	return len(c.refs)
}

// Data returns cell bits, last byte is padded with zeroes.
func (c *Cell) Data() []byte {
	return append([]byte{}, c.data...)
}

func (c *Cell) PeekRef(i int) (*Cell, error) {
	if i < 0 || i >= len(c.refs) {
		return nil, ErrNoMoreRefs
	}
	return c.refs[i], nil
}

func (c *Cell) Dump() string {
	return c.dump(0, false)
}

func (c *Cell) DumpBits() string {
	return c.dump(0, true)
}

func (c *Cell) dump(deep int, bin bool) string {
	var val string
	if bin {
		for _, n := range c.data {
			val += fmt.Sprintf("%08b", n)
		}
		val = val[:c.bitsSz]
	} else {
		val = hex.EncodeToString(c.data)
	}

	str := strings.Repeat("  ", deep) + fmt.Sprint(c.bitsSz) + "[" + val + "]"
	if len(c.refs) > 0 {
		str += " -> {"
		for i, ref := range c.refs {
			str += "\n" + ref.dump(deep+1, bin)
			if i == len(c.refs)-1 {
				str += "\n"
			} else {
				str += ","
			}
		}
		str += strings.Repeat("  ", deep)
		return str + "}"
	}
	return str
}
