package application

// AdminGate is a pure authorization predicate over static configuration.
// An empty allowed-chat set means the admin surface works from any chat.
type AdminGate struct {
	admins       map[int64]struct{}
	allowedChats map[int64]struct{}
}

func NewAdminGate(adminIDs, allowedChatIDs []int64) *AdminGate {
	g := &AdminGate{
		admins:       make(map[int64]struct{}, len(adminIDs)),
		allowedChats: make(map[int64]struct{}, len(allowedChatIDs)),
	}
	for _, id := range adminIDs {
		g.admins[id] = struct{}{}
	}
	for _, id := range allowedChatIDs {
		g.allowedChats[id] = struct{}{}
	}
	return g
}

func (g *AdminGate) IsAdmin(userID int64) bool {
	_, ok := g.admins[userID]
	return ok
}

func (g *AdminGate) IsChatAllowed(chatID int64) bool {
	if len(g.allowedChats) == 0 {
		return true
	}
	_, ok := g.allowedChats[chatID]
	return ok
}

func (g *AdminGate) CanAdminister(userID, chatID int64) bool {
	return g.IsAdmin(userID) && g.IsChatAllowed(chatID)
}
