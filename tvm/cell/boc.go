package cell

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/mariafchaparro/tma-test/tvm/boc"
)

var ErrBocTooLarge = errors.New("boc is too large")

// wallets expect single byte for cells number and data size
const maxFieldBytes = 1

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func (c *Cell) ToBOC() ([]byte, error) {
	return c.ToBOCWithFlags(true)
}

func (c *Cell) ToBOCWithFlags(withCRC bool) ([]byte, error) {
	return ToBOCWithFlags([]*Cell{c}, withCRC)
}

func ToBOCWithFlags(roots []*Cell, withCRC bool) ([]byte, error) {
	if len(roots) == 0 {
		return nil, errors.New("no roots")
	}

	// go through cells, build index and store unique in slice
	orderCells, index := flattenIndex(roots)

	refSz := refSizeBytes(len(orderCells))
	if refSz > maxFieldBytes {
		return nil, fmt.Errorf("%w: %d cells", ErrBocTooLarge, len(orderCells))
	}

	var payload []byte
	for _, id := range orderCells {
		// serialize each cell
		payload = append(payload, id.cell.serialize(index, refSz)...)
	}

	offSz := refSizeBytes(len(payload))
	if offSz > maxFieldBytes {
		return nil, fmt.Errorf("%w: %d bytes of cells data", ErrBocTooLarge, len(payload))
	}

	flags := boc.BocFlags{
		HasCrc32c: withCRC,
	}

	var data []byte

	data = append(data, boc.Magic...)
	data = append(data, flags.Serialize(refSz))

	// bytes needed to store size
	data = append(data, byte(offSz))

	// cells num
	data = append(data, dynamicIntBytes(uint64(len(orderCells)), refSz)...)

	// roots num
	data = append(data, dynamicIntBytes(uint64(len(roots)), refSz)...)

	// absent cells = 0
	data = append(data, dynamicIntBytes(0, refSz)...)

	// len of data
	data = append(data, dynamicIntBytes(uint64(len(payload)), offSz)...)

	for _, r := range roots {
		data = append(data, dynamicIntBytes(index[r].index, refSz)...)
	}
	data = append(data, payload...)

	if withCRC {
		checksum := make([]byte, 4)
		binary.LittleEndian.PutUint32(checksum, crc32.Checksum(data, castagnoli))

		data = append(data, checksum...)
	}

	return data, nil
}
