package application

import (
	"strings"
	"testing"
	"time"
)

const (
	adminID   = int64(1)
	playerID  = int64(42)
	chatID    = int64(-100)
	listReply = "There are 2 of a max of 20 players online: Nova, Ash"
)

type sessionHarness struct {
	svc     *SessionServiceImpl
	console *fakeConsole
	links   *memLinks
	control *fakeControl
	policy  *CommandPolicy
}

func newSessionHarness() *sessionHarness {
	console := &fakeConsole{handler: func(cmd string) (string, error) {
		if cmd == "list" {
			return listReply, nil
		}
		return "", nil
	}}
	links := newMemLinks()
	linkSvc := NewLinkServiceImpl(links, console, testObjective, 300*time.Second, nopLogger{})
	policy := NewCommandPolicy("")
	policy.replace([]string{"tp", "gamemode"})
	control := &fakeControl{}

	opts := Options{
		TriggerObjective: testObjective,
		LinkCodeTTL:      300 * time.Second,
		RestartDelay:     10 * time.Second,
	}
	svc := NewSessionServiceImpl(
		linkSvc,
		NewDirectoryServiceImpl(&memUsers{}, nopLogger{}),
		policy,
		NewAdminGate([]int64{adminID}, nil),
		console,
		control,
		opts,
		nopLogger{},
	)
	return &sessionHarness{svc: svc, console: console, links: links, control: control, policy: policy}
}

func (h *sessionHarness) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range h.console.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func TestTeleportMenuFlow(t *testing.T) {
	h := newSessionHarness()
	h.links.Set(playerID, "Steve")

	r := h.svc.HandleText(playerID, chatID, BtnTeleport)
	if r.Keyboard.Kind != KbTeleport {
		t.Fatalf("keyboard %v, want teleport menu", r.Keyboard.Kind)
	}
	if len(r.Keyboard.Players) != 2 || r.Keyboard.Players[0] != "Nova" || r.Keyboard.Players[1] != "Ash" {
		t.Fatalf("players %v", r.Keyboard.Players)
	}

	// A name not in the cached list re-renders the menu, no command issued.
	r = h.svc.HandleText(playerID, chatID, "Zed")
	if r.Keyboard.Kind != KbTeleport {
		t.Fatalf("unknown name left the menu: %v", r.Keyboard.Kind)
	}
	if calls := h.callsWithPrefix("tp "); len(calls) != 0 {
		t.Fatalf("unexpected teleport: %v", calls)
	}

	// A cached name teleports and returns to the main menu.
	r = h.svc.HandleText(playerID, chatID, "Ash")
	if r.Keyboard.Kind != KbMain {
		t.Fatalf("keyboard %v, want main", r.Keyboard.Kind)
	}
	calls := h.callsWithPrefix("tp ")
	if len(calls) != 1 || calls[0] != "tp Steve Ash" {
		t.Fatalf("teleport calls: %v", calls)
	}
}

func TestTeleportCoordinatesFlow(t *testing.T) {
	h := newSessionHarness()
	h.links.Set(playerID, "Steve")

	h.svc.HandleText(playerID, chatID, BtnTeleport)
	r := h.svc.HandleText(playerID, chatID, BtnCoords)
	if r.Keyboard.Kind != KbBack {
		t.Fatalf("keyboard %v, want back-only prompt", r.Keyboard.Kind)
	}

	// Malformed input re-prompts without leaving the phase.
	r = h.svc.HandleText(playerID, chatID, "1 2x 3")
	if r.Keyboard.Kind != KbBack {
		t.Fatalf("bad coords left the prompt: %v", r.Keyboard.Kind)
	}
	if calls := h.callsWithPrefix("tp "); len(calls) != 0 {
		t.Fatalf("unexpected teleport: %v", calls)
	}

	r = h.svc.HandleText(playerID, chatID, "1 64 -20.5")
	if r.Keyboard.Kind != KbMain {
		t.Fatalf("keyboard %v, want main", r.Keyboard.Kind)
	}
	calls := h.callsWithPrefix("tp ")
	if len(calls) != 1 || calls[0] != "tp Steve 1 64 -20.5" {
		t.Fatalf("teleport calls: %v", calls)
	}
}

func TestGameModeFlow(t *testing.T) {
	h := newSessionHarness()
	h.links.Set(playerID, "Steve")

	r := h.svc.HandleText(playerID, chatID, BtnMode)
	if r.Keyboard.Kind != KbGameMode {
		t.Fatalf("keyboard %v, want game mode menu", r.Keyboard.Kind)
	}

	r = h.svc.HandleText(playerID, chatID, BtnCreative)
	if r.Keyboard.Kind != KbMain {
		t.Fatalf("keyboard %v, want main", r.Keyboard.Kind)
	}
	calls := h.callsWithPrefix("gamemode ")
	if len(calls) != 1 || calls[0] != "gamemode creative Steve" {
		t.Fatalf("gamemode calls: %v", calls)
	}
}

func TestDisabledCommandDenied(t *testing.T) {
	h := newSessionHarness()
	h.links.Set(playerID, "Steve")
	h.policy.replace(nil)

	r := h.svc.HandleText(playerID, chatID, BtnTeleport)
	if r.Keyboard.Kind != KbMain || !strings.Contains(r.Text, "disabled") {
		t.Fatalf("expected denial in main menu, got %v %q", r.Keyboard.Kind, r.Text)
	}
	if len(h.console.Calls()) != 0 {
		t.Fatalf("console touched for disabled command: %v", h.console.Calls())
	}
}

func TestTeleportRequiresLink(t *testing.T) {
	h := newSessionHarness()

	r := h.svc.HandleText(playerID, chatID, BtnTeleport)
	if r.Keyboard.Kind != KbMain || !strings.Contains(r.Text, "Link your account") {
		t.Fatalf("expected link prompt, got %q", r.Text)
	}
}

func TestBackAlwaysReturnsToMain(t *testing.T) {
	h := newSessionHarness()
	h.links.Set(playerID, "Steve")

	h.svc.HandleText(playerID, chatID, BtnTeleport)
	h.svc.HandleText(playerID, chatID, BtnCoords)
	r := h.svc.HandleText(playerID, chatID, BtnBack)
	if r.Keyboard.Kind != KbMain {
		t.Fatalf("keyboard %v, want main", r.Keyboard.Kind)
	}
	if h.svc.phase(playerID) != 0 {
		t.Fatalf("phase not reset")
	}
}

func TestRawCommandDeniedForNonAdmin(t *testing.T) {
	h := newSessionHarness()

	r := h.svc.HandleRawCommand(playerID, chatID, "stop")
	if r.Text != msgNotAllowed {
		t.Fatalf("got %q", r.Text)
	}
	if len(h.console.Calls()) != 0 {
		t.Fatalf("console reached by non-admin: %v", h.console.Calls())
	}
}

func TestRawCommandForAdmin(t *testing.T) {
	h := newSessionHarness()

	h.svc.HandleRawCommand(adminID, chatID, "say hello")
	calls := h.console.Calls()
	if len(calls) != 1 || calls[0] != "say hello" {
		t.Fatalf("calls: %v", calls)
	}
}

func TestAdminPanelRequiresGate(t *testing.T) {
	h := newSessionHarness()

	r := h.svc.HandleText(playerID, chatID, BtnAdmin)
	if r.Keyboard.Kind == KbAdmin {
		t.Fatalf("non-admin entered the panel")
	}

	r = h.svc.HandleText(adminID, chatID, BtnAdmin)
	if r.Keyboard.Kind != KbAdmin {
		t.Fatalf("admin refused: %v", r.Keyboard.Kind)
	}
}

func TestAdminRestartCoalesced(t *testing.T) {
	h := newSessionHarness()
	h.svc.HandleText(adminID, chatID, BtnAdmin)

	r := h.svc.HandleText(adminID, chatID, BtnRestart)
	if !strings.Contains(r.Text, "Restart") {
		t.Fatalf("got %q", r.Text)
	}
	if h.control.scheduled != 1 {
		t.Fatalf("scheduled %d, want 1", h.control.scheduled)
	}
	if calls := h.callsWithPrefix("stop"); len(calls) != 1 {
		t.Fatalf("stop calls: %v", calls)
	}

	h.control.refuse = true
	r = h.svc.HandleText(adminID, chatID, BtnRestart)
	if !strings.Contains(r.Text, "already pending") {
		t.Fatalf("got %q", r.Text)
	}
}

func TestUnknownTextReRendersMenu(t *testing.T) {
	h := newSessionHarness()

	r := h.svc.HandleText(playerID, chatID, "what is this")
	if r.Keyboard.Kind != KbMain || !strings.Contains(r.Text, msgNotUnderstood) {
		t.Fatalf("got %v %q", r.Keyboard.Kind, r.Text)
	}

	h.svc.HandleText(adminID, chatID, BtnAdmin)
	r = h.svc.HandleText(adminID, chatID, "what is this")
	if r.Keyboard.Kind != KbAdmin {
		t.Fatalf("admin menu not re-rendered: %v", r.Keyboard.Kind)
	}
}

func TestHandleStartIssuesCodeWhenUnlinked(t *testing.T) {
	h := newSessionHarness()

	r := h.svc.HandleStart(playerID, chatID)
	if !strings.Contains(r.Text, "/trigger "+testObjective+" set ") {
		t.Fatalf("no trigger instruction in %q", r.Text)
	}
	if r.Keyboard.Linked || r.Keyboard.Kind != KbMain {
		t.Fatalf("keyboard %+v", r.Keyboard)
	}

	h.links.Set(playerID, "Steve")
	r = h.svc.HandleStart(playerID, chatID)
	if !strings.Contains(r.Text, "Steve") || !r.Keyboard.Linked {
		t.Fatalf("linked start reply: %q %+v", r.Text, r.Keyboard)
	}
}

func TestGameModeCommandAbbreviations(t *testing.T) {
	h := newSessionHarness()
	h.links.Set(playerID, "Steve")

	h.svc.HandleGameMode(playerID, chatID, []string{"sp"})
	calls := h.callsWithPrefix("gamemode ")
	if len(calls) != 1 || calls[0] != "gamemode spectator Steve" {
		t.Fatalf("calls: %v", calls)
	}

	r := h.svc.HandleGameMode(playerID, chatID, []string{"hardcore"})
	if !strings.Contains(r.Text, "Allowed:") {
		t.Fatalf("got %q", r.Text)
	}
}

func TestParsePlayers(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{listReply, 2},
		{"There are 0 of a max of 20 players online:", 0},
		{"no colon here", 0},
	}
	for _, c := range cases {
		if got := parsePlayers(c.in); len(got) != c.want {
			t.Fatalf("parsePlayers(%q) = %v", c.in, got)
		}
	}
}
