package application

import "testing"

func TestAdminGate(t *testing.T) {
	g := NewAdminGate([]int64{1, 2}, []int64{-100})

	if !g.IsAdmin(1) || g.IsAdmin(3) {
		t.Fatalf("admin membership wrong")
	}
	if !g.IsChatAllowed(-100) || g.IsChatAllowed(-200) {
		t.Fatalf("chat membership wrong")
	}
	if !g.CanAdminister(1, -100) {
		t.Fatalf("admin in allowed chat refused")
	}
	if g.CanAdminister(1, -200) || g.CanAdminister(3, -100) {
		t.Fatalf("gate passed a non-matching pair")
	}
}

func TestAdminGateEmptyChatListIsUnrestricted(t *testing.T) {
	g := NewAdminGate([]int64{1}, nil)
	if !g.CanAdminister(1, 12345) {
		t.Fatalf("empty chat list should allow any chat")
	}
}
