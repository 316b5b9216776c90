package btree

import (
	"bytes"
	"path/filepath"
	"testing"

	"vqlite/internal/dberr"
	"vqlite/pager"
	"vqlite/row"
)

func openTestTable(t *testing.T) (*Table, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	p, err := pager.OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	tbl, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return tbl, path
}

func collectKeys(t *testing.T, tbl *Table) []uint32 {
	t.Helper()
	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	var keys []uint32
	for !cur.EndOfTable() {
		k, err := cur.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		keys = append(keys, k)
		if err := cur.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	return keys
}

// Scenario 1: empty scan.
func TestEmptyScan(t *testing.T) {
	tbl, _ := openTestTable(t)
	keys := collectKeys(t, tbl)
	if len(keys) != 0 {
		t.Fatalf("expected no rows, got %v", keys)
	}
}

// Scenario 2: single insert round trip, including persistence across close/reopen.
func TestSingleInsertRoundTrip(t *testing.T) {
	tbl, path := openTestTable(t)
	r := row.Row{ID: 1, Username: "alice", Email: "alice@x"}
	if err := tbl.Insert(r.ID, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if cur.EndOfTable() {
		t.Fatalf("expected a row")
	}
	buf, err := cur.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	got := row.Deserialize(buf)
	if got != r {
		t.Fatalf("got %+v, want %+v", got, r)
	}

	if err := tbl.Pager.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := pager.OpenPager(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p2.Close()
	tbl2, err := Open(p2)
	if err != nil {
		t.Fatalf("Open reopened: %v", err)
	}
	cur2, err := tbl2.Start()
	if err != nil {
		t.Fatalf("Start reopened: %v", err)
	}
	if cur2.EndOfTable() {
		t.Fatalf("expected a row after reopen")
	}
	buf2, err := cur2.Value()
	if err != nil {
		t.Fatalf("Value reopened: %v", err)
	}
	if got2 := row.Deserialize(buf2); got2 != r {
		t.Fatalf("after reopen: got %+v, want %+v", got2, r)
	}
}

// Scenario 3: duplicate key rejection leaves the original row intact.
func TestDuplicateKeyRejected(t *testing.T) {
	tbl, _ := openTestTable(t)
	a := row.Row{ID: 5, Username: "a", Email: "a@a"}
	b := row.Row{ID: 5, Username: "b", Email: "b@b"}

	if err := tbl.Insert(a.ID, a); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := tbl.Insert(b.ID, b)
	if !dberr.Is(err, dberr.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	buf, err := cur.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if got := row.Deserialize(buf); got != a {
		t.Fatalf("expected original row to survive, got %+v", got)
	}
	if err := cur.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !cur.EndOfTable() {
		t.Fatalf("expected exactly one row")
	}
}

// Scenario 4: out-of-order inserts come back in ascending key order.
func TestOrderedScan(t *testing.T) {
	tbl, _ := openTestTable(t)
	for _, k := range []uint32{3, 1, 2} {
		if err := tbl.Insert(k, row.Row{ID: k, Username: "u", Email: "e"}); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}
	keys := collectKeys(t, tbl)
	want := []uint32{1, 2, 3}
	if !equalKeys(keys, want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
}

// Scenario 5: inserting 1..14 splits the root leaf and promotes it to an
// internal node with two 7-cell leaf children, per spec.md §8.3.
func TestLeafSplitWithRootPromotion(t *testing.T) {
	tbl, _ := openTestTable(t)
	for k := uint32(1); k <= 14; k++ {
		if err := tbl.Insert(k, row.Row{ID: k, Username: "u", Email: "e"}); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}

	root, err := tbl.Pager.GetPage(RootPageNum)
	if err != nil {
		t.Fatalf("GetPage(root): %v", err)
	}
	if getNodeType(root) != nodeInternal {
		t.Fatalf("expected root to become internal after 14 inserts")
	}
	if !isRoot(root) {
		t.Fatalf("expected page 0 to remain marked root")
	}
	if internalNumKeys(root) != 1 {
		t.Fatalf("expected root numKeys=1, got %d", internalNumKeys(root))
	}

	leftChildPage, err := internalChild(root, 0)
	if err != nil {
		t.Fatalf("internalChild(0): %v", err)
	}
	leftChild, err := tbl.Pager.GetPage(leftChildPage)
	if err != nil {
		t.Fatalf("GetPage(left): %v", err)
	}
	if leafNumCells(leftChild) != 7 {
		t.Fatalf("expected left leaf to have 7 cells, got %d", leafNumCells(leftChild))
	}
	if internalKey(root, 0) != 7 {
		t.Fatalf("expected split key 7, got %d", internalKey(root, 0))
	}

	rightChildPage := internalRightChild(root)
	rightChild, err := tbl.Pager.GetPage(rightChildPage)
	if err != nil {
		t.Fatalf("GetPage(right): %v", err)
	}
	if leafNumCells(rightChild) != 7 {
		t.Fatalf("expected right leaf to have 7 cells, got %d", leafNumCells(rightChild))
	}

	keys := collectKeys(t, tbl)
	var want []uint32
	for k := uint32(1); k <= 14; k++ {
		want = append(want, k)
	}
	if !equalKeys(keys, want) {
		t.Fatalf("got %v, want %v", keys, want)
	}

	var buf bytes.Buffer
	if err := PrintTree(&buf, tbl.Pager, tbl.RootPageNum, 0); err != nil {
		t.Fatalf("PrintTree: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty tree dump")
	}
}

// A split on a non-root leaf is explicitly unimplemented (spec.md §4.5
// step 6, §9): inserting enough rows to overflow a second-level leaf must
// raise ErrUnsupportedSplit, fatally, rather than silently corrupt the tree.
func TestNonRootLeafSplitIsUnsupported(t *testing.T) {
	tbl, _ := openTestTable(t)
	var lastErr error
	for k := uint32(1); k <= 100; k++ {
		lastErr = tbl.Insert(k, row.Row{ID: k, Username: "u", Email: "e"})
		if lastErr != nil {
			break
		}
	}
	if lastErr == nil {
		t.Fatalf("expected capacity to be exhausted well before 100 keys")
	}
	if !dberr.Is(lastErr, dberr.ErrUnsupportedSplit) {
		t.Fatalf("expected ErrUnsupportedSplit, got %v", lastErr)
	}
}

// Binary search agreement: Find positions on the key if present, else on
// the first key greater than it (spec.md §8.2).
func TestFindAgreesWithLinearSearch(t *testing.T) {
	tbl, _ := openTestTable(t)
	for _, k := range []uint32{10, 20, 30, 40, 50} {
		if err := tbl.Insert(k, row.Row{ID: k, Username: "u", Email: "e"}); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}

	cur, err := tbl.Find(30)
	if err != nil {
		t.Fatalf("Find(30): %v", err)
	}
	k, err := cur.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if k != 30 {
		t.Fatalf("Find(30): got key %d", k)
	}

	cur, err = tbl.Find(25)
	if err != nil {
		t.Fatalf("Find(25): %v", err)
	}
	k, err = cur.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if k != 30 {
		t.Fatalf("Find(25): expected first key > 25 to be 30, got %d", k)
	}
}

func equalKeys(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

