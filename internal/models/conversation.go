package models

// Phase is the menu a user is currently in. A process restart drops every
// user back to PhaseMain; nothing here is persisted.
type Phase int

const (
	PhaseMain Phase = iota
	PhaseAdmin
	PhaseTeleportMenu
	PhaseTeleportCoords
	PhaseGameModeMenu
)

func (p Phase) String() string {
	switch p {
	case PhaseAdmin:
		return "admin"
	case PhaseTeleportMenu:
		return "tp_menu"
	case PhaseTeleportCoords:
		return "tp_coords"
	case PhaseGameModeMenu:
		return "gm_menu"
	default:
		return "main"
	}
}

// Conversation holds per-user dialog state. PendingPlayers is the online
// list captured when the teleport menu was entered; it goes stale on
// purpose until the user re-enters the flow.
type Conversation struct {
	Phase          Phase
	PendingPlayers []string
}
