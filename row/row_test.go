package row

import "testing"

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	r := Row{ID: 42, Username: "alice", Email: "alice@example.com"}
	buf := make([]byte, Size)
	Serialize(r, buf)

	got := Deserialize(buf)
	if got != r {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, r)
	}
}

func TestSerializeIsFixedSize(t *testing.T) {
	if Size != 293 {
		t.Fatalf("expected Size=293, got %d", Size)
	}
}

func TestValidateInsertRejectsOverLongFields(t *testing.T) {
	longUsername := make([]byte, UsernameMaxLen+1)
	for i := range longUsername {
		longUsername[i] = 'a'
	}
	if err := ValidateInsert(string(longUsername), "e@e.com"); err == nil {
		t.Errorf("expected error for over-long username")
	}

	longEmail := make([]byte, EmailMaxLen+1)
	for i := range longEmail {
		longEmail[i] = 'a'
	}
	if err := ValidateInsert("bob", string(longEmail)); err == nil {
		t.Errorf("expected error for over-long email")
	}

	if err := ValidateInsert("bob", "bob@example.com"); err != nil {
		t.Errorf("expected valid fields to pass, got %v", err)
	}
}

func TestSerializeZeroesUnusedCapacity(t *testing.T) {
	buf := make([]byte, Size)
	for i := range buf {
		buf[i] = 0xFF
	}
	Serialize(Row{ID: 1, Username: "a", Email: "b"}, buf)

	got := Deserialize(buf)
	if got.Username != "a" || got.Email != "b" {
		t.Fatalf("expected trailing bytes to be zeroed and trimmed, got %+v", got)
	}
}
