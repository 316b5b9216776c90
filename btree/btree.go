// Package btree composes a pager and the node codec into keyed search,
// ordered scan, and insertion with leaf splitting and root promotion over a
// single table whose root always lives at page 0 (spec.md §3.2, §4.5).
package btree

import (
	"sort"

	"vqlite/internal/dberr"
	"vqlite/pager"
	"vqlite/row"
)

// RootPageNum is the fixed page number of the tree root. Splitting the root
// copies its contents to a freshly allocated page instead of moving the
// root, so this never changes.
const RootPageNum = 0

// Table binds a pager to the root of its one B+ tree.
type Table struct {
	Pager       *pager.Pager
	RootPageNum uint32
}

// Open returns a Table over an already-opened pager, initializing a fresh
// root leaf if the file was empty.
func Open(p *pager.Pager) (*Table, error) {
	t := &Table{Pager: p, RootPageNum: RootPageNum}
	if p.NumPages() == 0 {
		root, err := p.GetPage(RootPageNum)
		if err != nil {
			return nil, err
		}
		initLeaf(root)
		setIsRoot(root, true)
	}
	return t, nil
}

// Find descends the tree for key and returns a cursor positioned on it (if
// present) or on the smallest key greater than it within its leaf
// (spec.md §4.3).
func (t *Table) Find(key uint32) (*Cursor, error) {
	pageNum, err := t.findLeaf(t.RootPageNum, key)
	if err != nil {
		return nil, err
	}
	leaf, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	cellNum := leafFindCell(leaf, key)
	return &Cursor{table: t, pageNum: pageNum, cellNum: cellNum, endOfTable: leafNumCells(leaf) == 0}, nil
}

// findLeaf descends from pageNum to the leaf that key belongs in.
func (t *Table) findLeaf(pageNum uint32, key uint32) (uint32, error) {
	p, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	if getNodeType(p) == nodeLeaf {
		return pageNum, nil
	}
	childIdx := internalFindChildIndex(p, key)
	childPage, err := internalChild(p, childIdx)
	if err != nil {
		return 0, err
	}
	return t.findLeaf(childPage, key)
}

// leafFindCell returns the smallest cell index i with leafKey(i) >= key, or
// numCells if none.
func leafFindCell(p *pager.Page, key uint32) uint32 {
	n := leafNumCells(p)
	idx := sort.Search(int(n), func(i int) bool {
		return leafKey(p, uint32(i)) >= key
	})
	return uint32(idx)
}

// internalFindChildIndex returns the smallest cell index i with
// internalKey(i) >= key, or numKeys if none — the index of the child whose
// subtree key descends into.
func internalFindChildIndex(p *pager.Page, key uint32) uint32 {
	n := internalNumKeys(p)
	idx := sort.Search(int(n), func(i int) bool {
		return internalKey(p, uint32(i)) >= key
	})
	return uint32(idx)
}

// Insert adds key/r into the tree. ErrDuplicateKey if key is already
// present.
func (t *Table) Insert(key uint32, r row.Row) error {
	cur, err := t.Find(key)
	if err != nil {
		return err
	}
	leaf, err := t.Pager.GetPage(cur.pageNum)
	if err != nil {
		return err
	}
	if cur.cellNum < leafNumCells(leaf) && leafKey(leaf, cur.cellNum) == key {
		return dberr.ErrDuplicateKey
	}
	return t.leafInsert(cur, key, r)
}

func (t *Table) leafInsert(cur *Cursor, key uint32, r row.Row) error {
	leaf, err := t.Pager.GetPage(cur.pageNum)
	if err != nil {
		return err
	}
	numCells := leafNumCells(leaf)
	if numCells < LeafMaxCells {
		for i := numCells; i > cur.cellNum; i-- {
			copyLeafCell(leaf, i, leaf, i-1)
		}
		setLeafCell(leaf, cur.cellNum, key, r)
		setLeafNumCells(leaf, numCells+1)
		return nil
	}
	return t.leafSplitAndInsert(cur, key, r)
}

// leafSplitAndInsert implements spec.md §4.5: allocate a sibling leaf,
// redistribute the LeafMaxCells+1 logical cells (old cells plus the new
// one) across old and new pages, link them via next_leaf, and promote the
// root if the split leaf was the root.
func (t *Table) leafSplitAndInsert(cur *Cursor, key uint32, r row.Row) error {
	oldPageNum := cur.pageNum
	oldPage, err := t.Pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	newPageNum := t.Pager.UnusedPageNum()
	newPage, err := t.Pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	initLeaf(newPage)
	setLeafNextLeaf(newPage, leafNextLeaf(oldPage))
	setLeafNextLeaf(oldPage, newPageNum)

	// Redistribute logical positions LeafMaxCells..0 (descending, so the
	// still-unmoved old cells are never overwritten before they're read).
	for i := int(LeafMaxCells); i >= 0; i-- {
		var destPage *pager.Page
		if uint32(i) >= LeafLeftSplitCount {
			destPage = newPage
		} else {
			destPage = oldPage
		}
		destCell := uint32(i) % LeafLeftSplitCount

		switch {
		case uint32(i) == cur.cellNum:
			setLeafCell(destPage, destCell, key, r)
		case uint32(i) > cur.cellNum:
			copyLeafCell(destPage, destCell, oldPage, uint32(i)-1)
		default:
			copyLeafCell(destPage, destCell, oldPage, uint32(i))
		}
	}
	setLeafNumCells(oldPage, LeafLeftSplitCount)
	setLeafNumCells(newPage, LeafRightSplitCount)

	if isRoot(oldPage) {
		return t.promoteRoot(oldPageNum, newPageNum)
	}
	return dberr.ErrUnsupportedSplit
}

// promoteRoot implements spec.md §4.5 step 5: the split leaf was the root,
// so its bytes move to a freshly allocated page, and page 0 becomes an
// internal node with two children — the relocated old root (now a plain
// leaf) and the new sibling.
func (t *Table) promoteRoot(oldPageNum, newPageNum uint32) error {
	oldRoot, err := t.Pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	relocatedNum := t.Pager.UnusedPageNum()
	relocated, err := t.Pager.GetPage(relocatedNum)
	if err != nil {
		return err
	}
	relocated.Data = oldRoot.Data
	relocated.Dirty = true
	setIsRoot(relocated, false)

	initInternal(oldRoot)
	setIsRoot(oldRoot, true)
	setInternalNumKeys(oldRoot, 1)
	setInternalChildRaw(oldRoot, 0, relocatedNum)
	setInternalKey(oldRoot, 0, maxKey(relocated))
	setInternalRightChild(oldRoot, newPageNum)
	return nil
}
