// Command vqlite is the interactive shell around the core: a
// read-execute-print loop over the fixed insert/select grammar, backed by
// a single B+-tree-indexed table file (spec.md §6). This binary is the
// external collaborator spec.md's core treats as out of scope — parsing,
// validation, and process bootstrap live here, not in package btree.
package main

import (
	"bufio"
	"fmt"
	"os"

	"vqlite/btree"
	"vqlite/internal/dberr"
	"vqlite/pager"
	"vqlite/row"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: vqlite <database-file>")
		os.Exit(1)
	}

	table, err := openTable(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		input, err := readInput(reader)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		if input == "" {
			continue
		}

		if input[0] == '.' {
			switch handleMetaCommand(input) {
			case MetaCommandSuccess:
				if input == ".exit" {
					closeTable(table)
					os.Exit(0)
				}
				if input == ".btree" {
					if err := btree.PrintTree(os.Stdout, table.Pager, table.RootPageNum, 0); err != nil {
						fmt.Fprintln(os.Stderr, "fatal:", err)
						os.Exit(1)
					}
				}
			case MetaCommandUnrecognized:
				fmt.Printf("Unrecognized command %q.\n", input)
			}
			continue
		}

		var stmt Statement
		if err := prepareStatement(input, &stmt); err != nil {
			fmt.Println("Error:", err)
			continue
		}

		if err := executeStatement(&stmt, table); err != nil {
			if dberr.Is(err, dberr.ErrDuplicateKey) || dberr.Is(err, dberr.ErrUnrecognized) {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Fprintln(os.Stderr, "fatal:", err)
			os.Exit(1)
		}
	}
}

func openTable(path string) (*btree.Table, error) {
	p, err := pager.OpenPager(path)
	if err != nil {
		return nil, err
	}
	return btree.Open(p)
}

func closeTable(t *btree.Table) {
	if err := t.Pager.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close:", err)
		os.Exit(1)
	}
}

func executeStatement(stmt *Statement, table *btree.Table) error {
	switch stmt.Type {
	case StatementInsert:
		return executeInsert(stmt, table)
	case StatementSelect:
		return executeSelect(table)
	default:
		return dberr.ErrUnrecognized
	}
}

func executeInsert(stmt *Statement, table *btree.Table) error {
	return table.Insert(stmt.RowToInsert.ID, stmt.RowToInsert)
}

func executeSelect(table *btree.Table) error {
	cur, err := table.Start()
	if err != nil {
		return err
	}
	for !cur.EndOfTable() {
		buf, err := cur.Value()
		if err != nil {
			return err
		}
		printRow(row.Deserialize(buf))
		if err := cur.Advance(); err != nil {
			return err
		}
	}
	return nil
}
