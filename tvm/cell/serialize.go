package cell

import (
	"encoding/binary"
)

// Serialize returns the cell record as it is stored in BOC: descriptors, augmented data
// and indexes of references in the order of a BOC rooted at this cell.
func (c *Cell) Serialize() []byte {
	order, index := flattenIndex([]*Cell{c})
	return c.serialize(index, refSizeBytes(len(order)))
}

func (c *Cell) serialize(index map[*Cell]*idxItem, refSz int) []byte {
	data := append(c.descriptors(), c.augmentedData()...)
	for _, ref := range c.refs {
		data = append(data, dynamicIntBytes(index[ref].index, refSz)...)
	}
	return data
}

// augmentedData returns cell bits with completion tag, when the last byte is not full
// the bit right after data is set to 1.
func (c *Cell) augmentedData() []byte {
	payload := append([]byte{}, c.data...)

	if rest := c.bitsSz % 8; rest != 0 {
		payload[len(payload)-1] |= 1 << (7 - rest)
	}
	return payload
}

func (c *Cell) descriptors() []byte {
	// ordinary cells only, level 0
	d1 := byte(len(c.refs))

	// floor(bits/8) + ceil(bits/8), odd value means completion tag is present
	d2 := byte(c.bitsSz/8 + (c.bitsSz+7)/8)

	return []byte{d1, d2}
}

func dynamicIntBytes(val uint64, sz int) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, val)

	return data[8-sz:]
}

// refSizeBytes returns minimal bytes number to store n, at least 1.
func refSizeBytes(n int) int {
	sz := 1
	for n >= 1<<(8*sz) && sz < 8 {
		sz++
	}
	return sz
}
