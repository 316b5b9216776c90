// Package row defines the fixed three-column record stored by the core and
// its packed on-disk encoding.
package row

import (
	"encoding/binary"
	"strings"

	"vqlite/internal/dberr"
)

const (
	UsernameMaxLen = 32
	EmailMaxLen    = 255

	idSize       = 4
	usernameSize = UsernameMaxLen + 1 // + NUL terminator
	emailSize    = EmailMaxLen + 1

	idOffset       = 0
	usernameOffset = idOffset + idSize
	emailOffset    = usernameOffset + usernameSize

	// Size is the packed on-disk size of a Row: 4 + 33 + 256 = 293 bytes.
	Size = idOffset + idSize + usernameSize + emailSize - idOffset
)

// Row is one record: an id plus two bounded text fields.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// ValidateInsert checks the column-length invariants the wire format
// depends on. Callers that accept ids as a signed type should check
// non-negativity themselves before constructing a Row (ErrNegativeID); this
// only validates what the packed layout can't otherwise represent.
func ValidateInsert(username, email string) error {
	if len(username) > UsernameMaxLen {
		return dberr.Wrapf(dberr.ErrStringTooLong, "username %q exceeds %d bytes", username, UsernameMaxLen)
	}
	if len(email) > EmailMaxLen {
		return dberr.Wrapf(dberr.ErrStringTooLong, "email %q exceeds %d bytes", email, EmailMaxLen)
	}
	return nil
}

// Serialize writes r into dst, which must be exactly Size bytes.
func Serialize(r Row, dst []byte) {
	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+idSize], r.ID)
	copy(dst[usernameOffset:usernameOffset+usernameSize], r.Username)
	copy(dst[emailOffset:emailOffset+emailSize], r.Email)
}

// Deserialize is the inverse of Serialize. src must be exactly Size bytes.
func Deserialize(src []byte) Row {
	id := binary.LittleEndian.Uint32(src[idOffset : idOffset+idSize])
	username := nulTerminated(src[usernameOffset : usernameOffset+usernameSize])
	email := nulTerminated(src[emailOffset : emailOffset+emailSize])
	return Row{ID: id, Username: username, Email: email}
}

func nulTerminated(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}
