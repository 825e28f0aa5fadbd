package repository

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"craftgate/internal/models"
)

// UserFile is the audit log of everyone who ever talked to the bot, one JSON
// object keyed by the decimal chat ID. It is observational only; nothing
// reads it back for authorization.
type UserFile struct {
	path  string
	links Links
	mu    sync.RWMutex
	users map[string]models.UserRecord
}

func NewUserFile(path string, links Links) (*UserFile, error) {
	s := &UserFile{
		path:  path,
		links: links,
		users: make(map[string]models.UserRecord),
	}
	err := loadJSON(path, &s.users)
	if s.users == nil {
		s.users = make(map[string]models.UserRecord)
	}
	return s, err
}

// Touch upserts the record for a chat user and refreshes the mirrored
// linked game name from the link store, so the mirror never goes stale.
func (s *UserFile) Touch(id int64, username, firstName, lastName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gameName, _ := s.links.Get(id)
	s.users[strconv.FormatInt(id, 10)] = models.UserRecord{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		LastSeen:  time.Now().Unix(),
		GameName:  gameName,
	}
	return saveJSON(s.path, s.users)
}

// All returns the known users, most recently seen first.
func (s *UserFile) All() []models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.UserRecord, 0, len(s.users))
	for _, rec := range s.users {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].LastSeen > records[j].LastSeen
	})
	return records
}

func (s *UserFile) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
