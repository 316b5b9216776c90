package btree

// Cursor is a transient logical position (page, cell) within a Table, plus
// an end-of-scan flag. It does not outlive the call that created it across
// any operation that might allocate a new page.
type Cursor struct {
	table      *Table
	pageNum    uint32
	cellNum    uint32
	endOfTable bool
}

// Start returns a cursor positioned at the first cell of the leftmost leaf.
func (t *Table) Start() (*Cursor, error) {
	cur, err := t.Find(0)
	if err != nil {
		return nil, err
	}
	leaf, err := t.Pager.GetPage(cur.pageNum)
	if err != nil {
		return nil, err
	}
	cur.endOfTable = leafNumCells(leaf) == 0
	return cur, nil
}

// EndOfTable reports whether the cursor has advanced past the last row.
func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

// Key returns the key at the cursor's current position.
func (c *Cursor) Key() (uint32, error) {
	leaf, err := c.table.Pager.GetPage(c.pageNum)
	if err != nil {
		return 0, err
	}
	return leafKey(leaf, c.cellNum), nil
}

// Value returns a mutable byte slice over the row stored at the cursor's
// current position; callers serialize/deserialize a row.Row through it.
func (c *Cursor) Value() ([]byte, error) {
	leaf, err := c.table.Pager.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	return leafValue(leaf, c.cellNum), nil
}

// Advance moves the cursor to the next cell in key order, crossing into
// the next leaf via next_leaf when the current leaf is exhausted.
func (c *Cursor) Advance() error {
	leaf, err := c.table.Pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	c.cellNum++
	if c.cellNum < leafNumCells(leaf) {
		return nil
	}
	next := leafNextLeaf(leaf)
	if next == 0 {
		c.endOfTable = true
		return nil
	}
	c.pageNum = next
	c.cellNum = 0
	return nil
}
