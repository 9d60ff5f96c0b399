package cell

import (
	"sort"
)

type idxItem struct {
	index uint64
	cell  *Cell
}

// flattenIndex assigns BOC indexes, roots come first and every reference points
// to a bigger index than its parent. Cells are identified by pointer, so a subtree
// used twice is stored once.
func flattenIndex(cells []*Cell) ([]*idxItem, map[*Cell]*idxItem) {
	index := map[*Cell]*idxItem{}

	idx := uint64(0)
	for len(cells) > 0 {
		next := make([]*Cell, 0, len(cells)*4)
		for _, p := range cells {
			if _, ok := index[p]; ok {
				continue
			}

			// move cell forward in boc, because behind reference is not allowed
			index[p] = &idxItem{
				cell:  p,
				index: idx,
			}
			idx++
			next = append(next, p.refs...)
		}
		cells = next
	}

	idxSlice := make([]*idxItem, 0, len(index))
	for _, id := range index {
		idxSlice = append(idxSlice, id)
	}
	sortByIndex(idxSlice)

	for verifyOrder := true; verifyOrder; {
		verifyOrder = false

		for _, id := range idxSlice {
			for _, ref := range id.cell.refs {
				idRef := index[ref]

				if idRef.index < id.index {
					// if we found that ref index is behind parent,
					// move ref index forward
					idRef.index = idx
					idx++

					// we changed index, so we need to verify order again
					verifyOrder = true
				}
			}
		}
	}

	sortByIndex(idxSlice)

	for i, id := range idxSlice {
		// remove gaps in indexes
		id.index = uint64(i)
	}

	return idxSlice, index
}

func sortByIndex(items []*idxItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].index < items[j].index
	})
}
