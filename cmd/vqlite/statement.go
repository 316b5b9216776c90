package main

import (
	"fmt"
	"strconv"
	"strings"

	"vqlite/internal/dberr"
	"vqlite/row"
)

// StatementType is the kind of statement a prepared Statement holds.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is a parsed, validated command ready for execution.
type Statement struct {
	Type        StatementType
	RowToInsert row.Row
}

// prepareStatement parses the fixed `insert <id> <username> <email>` and
// `select` grammar (spec.md §1, explicitly out of the core's scope but
// implemented here in the external shell) and validates column bounds.
func prepareStatement(input string, stmt *Statement) error {
	switch {
	case strings.HasPrefix(input, "insert"):
		return prepareInsert(input, stmt)
	case input == "select":
		stmt.Type = StatementSelect
		return nil
	default:
		return dberr.Wrapf(dberr.ErrUnrecognized, "unrecognized keyword at start of %q", input)
	}
}

func prepareInsert(input string, stmt *Statement) error {
	fields := strings.Fields(input)
	if len(fields) != 4 {
		return dberr.Wrapf(dberr.ErrSyntaxError, "expected \"insert <id> <username> <email>\", got %q", input)
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return dberr.Wrapf(dberr.ErrSyntaxError, "id %q is not an integer", fields[1])
	}
	if id < 0 {
		return dberr.ErrNegativeID
	}
	username, email := fields[2], fields[3]
	if err := row.ValidateInsert(username, email); err != nil {
		return err
	}
	stmt.Type = StatementInsert
	stmt.RowToInsert = row.Row{ID: uint32(id), Username: username, Email: email}
	return nil
}

func printRow(r row.Row) {
	fmt.Printf("(%d, %s, %s)\n", r.ID, r.Username, r.Email)
}
