package testutil

import (
	"strings"
	"testing"
)

func TestDBName(t *testing.T) {
	if got := DBName("TestCreate/valid input"); got != "stratacms_test_TestCreate_valid_input" {
		t.Errorf("DBName() = %q", got)
	}

	long := "TestSomething/" + strings.Repeat("x", 80)
	a, b := DBName(long+"a"), DBName(long+"b")
	if len(a) > 63 || len(b) > 63 {
		t.Errorf("DBName() too long: %d, %d", len(a), len(b))
	}
	if a == b {
		t.Error("long names sharing a prefix must not collide")
	}
}
