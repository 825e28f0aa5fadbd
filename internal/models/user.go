package models

// UserRecord is the audit entry kept for every chat user the bot has seen.
// GameName mirrors the link store and is refreshed on every touch.
type UserRecord struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	LastSeen  int64  `json:"last_seen"`
	GameName  string `json:"mc_name"`
}
