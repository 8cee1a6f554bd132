package irq

import "testing"

func TestLevelRaisedFollowsSet(t *testing.T) {
	var l Level
	if l.Raised() {
		t.Error("zero-value Level reported raised")
	}
	l.Set(true)
	if !l.Raised() {
		t.Error("Set(true) did not raise the line")
	}
	l.Set(false)
	if l.Raised() {
		t.Error("Set(false) did not lower the line")
	}
}

var _ Source = (*Level)(nil)
