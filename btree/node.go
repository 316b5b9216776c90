// Node codec: pure accessors over a page's raw byte buffer. These take a
// *pager.Page each call rather than wrapping one in a long-lived typed
// object, so a page can be written to disk and read back with no fix-ups —
// the bytes are the node.
package btree

import (
	"encoding/binary"
	"unsafe"

	"vqlite/internal/dberr"
	"vqlite/pager"
	"vqlite/row"
)

type nodeType uint8

const (
	nodeInternal nodeType = 0
	nodeLeaf     nodeType = 1
)

// Common node header (spec.md §3.3). node_type and is_root are one byte
// each; parent_pointer is a reserved, unused 4-byte page number at offset 2.
// commonHeaderSize is pinned at the spec's explicit value of 7, one byte
// past where parent_pointer ends — that trailing byte is unused padding,
// not a fourth field; leaf/internal bodies both start at offset 7.
const (
	nodeTypeSize     = uint32(unsafe.Sizeof(uint8(0)))
	nodeTypeOffset   = uint32(0)
	isRootSize       = uint32(unsafe.Sizeof(uint8(0)))
	isRootOffset     = nodeTypeOffset + nodeTypeSize
	parentPtrSize    = uint32(unsafe.Sizeof(uint32(0)))
	parentPtrOffset  = isRootOffset + isRootSize
	commonHeaderSize = uint32(7)
)

// Leaf header (spec.md §3.4).
const (
	leafNumCellsSize   = uint32(unsafe.Sizeof(uint32(0)))
	leafNumCellsOffset = commonHeaderSize
	leafNextLeafSize   = uint32(unsafe.Sizeof(uint32(0)))
	leafNextLeafOffset = leafNumCellsOffset + leafNumCellsSize
	leafHeaderSize     = leafNextLeafOffset + leafNextLeafSize

	leafKeySize  = uint32(4)
	leafCellSize = leafKeySize + row.Size
)

// LeafMaxCells is the number of (key, row) cells that fit in one page after
// the leaf header, derived the way spec.md §3.4 derives it: 13 for the
// fixed 293-byte row.
var LeafMaxCells = (pager.PageSize - leafHeaderSize) / leafCellSize

// LeafRightSplitCount and LeafLeftSplitCount are the split distribution
// counts of spec.md §3.4.
var (
	LeafRightSplitCount = (LeafMaxCells + 1) / 2
	LeafLeftSplitCount  = (LeafMaxCells + 1) - LeafRightSplitCount
)

// Internal header (spec.md §3.5).
const (
	internalNumKeysSize      = uint32(unsafe.Sizeof(uint32(0)))
	internalNumKeysOffset    = commonHeaderSize
	internalRightChildSize   = uint32(unsafe.Sizeof(uint32(0)))
	internalRightChildOffset = internalNumKeysOffset + internalNumKeysSize
	internalHeaderSize       = internalRightChildOffset + internalRightChildSize

	internalChildSize = uint32(4)
	internalKeySize   = uint32(4)
	internalCellSize  = internalChildSize + internalKeySize
)

func getNodeType(p *pager.Page) nodeType {
	return nodeType(p.Data[nodeTypeOffset])
}

func setNodeType(p *pager.Page, t nodeType) {
	p.Data[nodeTypeOffset] = byte(t)
	p.Dirty = true
}

func isRoot(p *pager.Page) bool {
	return p.Data[isRootOffset] != 0
}

func setIsRoot(p *pager.Page, v bool) {
	if v {
		p.Data[isRootOffset] = 1
	} else {
		p.Data[isRootOffset] = 0
	}
	p.Dirty = true
}

// initLeaf resets p to an empty, non-root leaf node.
func initLeaf(p *pager.Page) {
	setNodeType(p, nodeLeaf)
	setIsRoot(p, false)
	setLeafNumCells(p, 0)
	setLeafNextLeaf(p, 0)
}

// initInternal resets p to an empty, non-root internal node.
func initInternal(p *pager.Page) {
	setNodeType(p, nodeInternal)
	setIsRoot(p, false)
	setInternalNumKeys(p, 0)
}

// --- leaf accessors ---

func leafNumCells(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[leafNumCellsOffset : leafNumCellsOffset+leafNumCellsSize])
}

func setLeafNumCells(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[leafNumCellsOffset:leafNumCellsOffset+leafNumCellsSize], n)
	p.Dirty = true
}

func leafNextLeaf(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[leafNextLeafOffset : leafNextLeafOffset+leafNextLeafSize])
}

func setLeafNextLeaf(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[leafNextLeafOffset:leafNextLeafOffset+leafNextLeafSize], n)
	p.Dirty = true
}

func leafCellOffset(cellNum uint32) uint32 {
	return leafHeaderSize + cellNum*leafCellSize
}

func leafKey(p *pager.Page, cellNum uint32) uint32 {
	off := leafCellOffset(cellNum)
	return binary.LittleEndian.Uint32(p.Data[off : off+leafKeySize])
}

func setLeafKey(p *pager.Page, cellNum uint32, key uint32) {
	off := leafCellOffset(cellNum)
	binary.LittleEndian.PutUint32(p.Data[off:off+leafKeySize], key)
	p.Dirty = true
}

func leafValue(p *pager.Page, cellNum uint32) []byte {
	off := leafCellOffset(cellNum) + leafKeySize
	return p.Data[off : off+row.Size]
}

func setLeafCell(p *pager.Page, cellNum uint32, key uint32, r row.Row) {
	setLeafKey(p, cellNum, key)
	row.Serialize(r, leafValue(p, cellNum))
	p.Dirty = true
}

// copyLeafCell copies the raw (key, value) bytes of cell src on srcPage to
// cell dst on dstPage.
func copyLeafCell(dstPage *pager.Page, dst uint32, srcPage *pager.Page, src uint32) {
	srcOff := leafCellOffset(src)
	dstOff := leafCellOffset(dst)
	copy(dstPage.Data[dstOff:dstOff+leafCellSize], srcPage.Data[srcOff:srcOff+leafCellSize])
	dstPage.Dirty = true
}

// --- internal accessors ---

func internalNumKeys(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[internalNumKeysOffset : internalNumKeysOffset+internalNumKeysSize])
}

func setInternalNumKeys(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[internalNumKeysOffset:internalNumKeysOffset+internalNumKeysSize], n)
	p.Dirty = true
}

func internalRightChild(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[internalRightChildOffset : internalRightChildOffset+internalRightChildSize])
}

func setInternalRightChild(p *pager.Page, pageNum uint32) {
	binary.LittleEndian.PutUint32(p.Data[internalRightChildOffset:internalRightChildOffset+internalRightChildSize], pageNum)
	p.Dirty = true
}

func internalCellOffset(cellNum uint32) uint32 {
	return internalHeaderSize + cellNum*internalCellSize
}

func internalChildRaw(p *pager.Page, cellNum uint32) uint32 {
	off := internalCellOffset(cellNum)
	return binary.LittleEndian.Uint32(p.Data[off : off+internalChildSize])
}

func setInternalChildRaw(p *pager.Page, cellNum uint32, pageNum uint32) {
	off := internalCellOffset(cellNum)
	binary.LittleEndian.PutUint32(p.Data[off:off+internalChildSize], pageNum)
	p.Dirty = true
}

func internalKey(p *pager.Page, cellNum uint32) uint32 {
	off := internalCellOffset(cellNum) + internalChildSize
	return binary.LittleEndian.Uint32(p.Data[off : off+internalKeySize])
}

func setInternalKey(p *pager.Page, cellNum uint32, key uint32) {
	off := internalCellOffset(cellNum) + internalChildSize
	binary.LittleEndian.PutUint32(p.Data[off:off+internalKeySize], key)
	p.Dirty = true
}

// internalChild returns the page number of child i: cell i's child if
// i < numKeys, the right_child if i == numKeys, else ErrBadChildIndex.
func internalChild(p *pager.Page, i uint32) (uint32, error) {
	numKeys := internalNumKeys(p)
	switch {
	case i < numKeys:
		return internalChildRaw(p, i), nil
	case i == numKeys:
		return internalRightChild(p), nil
	default:
		return 0, dberr.Wrapf(dberr.ErrBadChildIndex, "child %d > numKeys %d", i, numKeys)
	}
}

func setInternalChild(p *pager.Page, i uint32, pageNum uint32) error {
	numKeys := internalNumKeys(p)
	switch {
	case i < numKeys:
		setInternalChildRaw(p, i, pageNum)
		return nil
	case i == numKeys:
		setInternalRightChild(p, pageNum)
		return nil
	default:
		return dberr.Wrapf(dberr.ErrBadChildIndex, "child %d > numKeys %d", i, numKeys)
	}
}

// maxKey returns the last key of a leaf, or the last cell key of an internal
// node. For an internal node the keys under right_child, which are larger,
// are not consulted.
func maxKey(p *pager.Page) uint32 {
	if getNodeType(p) == nodeLeaf {
		return leafKey(p, leafNumCells(p)-1)
	}
	return internalKey(p, internalNumKeys(p)-1)
}
