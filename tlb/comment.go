package tlb

import (
	"fmt"

	"github.com/mariafchaparro/tma-test/tvm/cell"
)

// first cell keeps 32 bits of zero op
const (
	commentFirstChunk = (cell.MaxBits - 32) / 8
	snakeChunk        = cell.MaxBits / 8
)

// Comment is a text comment, zero op followed by snake string.
type Comment struct {
	Value string
}

func (c *Comment) LoadFromCell(loader *cell.Slice) error {
	op, err := loader.LoadUInt(32)
	if err != nil {
		return fmt.Errorf("failed to load op: %w", err)
	}
	if op != 0 {
		return fmt.Errorf("not a text comment, op %x", op)
	}

	var res []byte
	for depth := 0; ; depth++ {
		if loader.BitsLeft()%8 != 0 {
			return fmt.Errorf("chunk %d is not aligned to bytes", depth)
		}

		data, err := loader.LoadSlice(loader.BitsLeft())
		if err != nil {
			return fmt.Errorf("failed to load chunk %d: %w", depth, err)
		}
		res = append(res, data...)

		if loader.RefsNum() == 0 {
			break
		}
		if loader, err = loader.LoadRef(); err != nil {
			return fmt.Errorf("failed to load next chunk of chunk %d: %w", depth, err)
		}
	}

	c.Value = string(res)
	return nil
}

func (c Comment) ToCell() (*cell.Cell, error) {
	val := []byte(c.Value)

	first := val[:min(len(val), commentFirstChunk)]
	var chunks [][]byte
	for rest := val[len(first):]; len(rest) > 0; {
		sz := min(len(rest), snakeChunk)
		chunks = append(chunks, rest[:sz])
		rest = rest[sz:]
	}

	// chain is built from the tail
	var next *cell.Cell
	for i := len(chunks) - 1; i >= 0; i-- {
		b := cell.BeginCell().MustStoreSlice(chunks[i], uint(len(chunks[i]))*8)
		if next != nil {
			b.MustStoreRef(next)
		}

		var err error
		if next, err = b.EndCell(); err != nil {
			return nil, fmt.Errorf("failed to build chunk %d: %w", i, err)
		}
	}

	b := cell.BeginCell().MustStoreUInt(0, 32).MustStoreSlice(first, uint(len(first))*8)
	if next != nil {
		b.MustStoreRef(next)
	}
	return b.EndCell()
}
