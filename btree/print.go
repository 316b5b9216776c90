package btree

import (
	"fmt"
	"io"
	"strings"

	"vqlite/pager"
)

// PrintTree writes a diagnostic dump of the subtree rooted at pageNum to w,
// the way the cstack tutorial's printTree/indent pair does for the .btree
// meta-command (spec.md §6.2, §9).
func PrintTree(w io.Writer, p *pager.Pager, pageNum uint32, indentLevel int) error {
	page, err := p.GetPage(pageNum)
	if err != nil {
		return err
	}
	switch getNodeType(page) {
	case nodeLeaf:
		numCells := leafNumCells(page)
		fmt.Fprintf(w, "%sleaf (size %d)\n", indent(indentLevel), numCells)
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s- %d\n", indent(indentLevel+1), leafKey(page, i))
		}
	case nodeInternal:
		numKeys := internalNumKeys(page)
		fmt.Fprintf(w, "%sinternal (size %d)\n", indent(indentLevel), numKeys)
		for i := uint32(0); i < numKeys; i++ {
			child, err := internalChild(page, i)
			if err != nil {
				return err
			}
			if err := PrintTree(w, p, child, indentLevel+1); err != nil {
				return err
			}
			fmt.Fprintf(w, "%skey %d\n", indent(indentLevel+1), internalKey(page, i))
		}
		if err := PrintTree(w, p, internalRightChild(page), indentLevel+1); err != nil {
			return err
		}
	}
	return nil
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}
