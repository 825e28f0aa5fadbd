package repository

import (
	"strconv"
	"sync"
)

// LinkFile is the durable chat-identity -> game-name mapping, kept as a
// single JSON object keyed by the decimal chat ID.
type LinkFile struct {
	path  string
	mu    sync.RWMutex
	links map[string]string
}

func NewLinkFile(path string) (*LinkFile, error) {
	s := &LinkFile{
		path:  path,
		links: make(map[string]string),
	}
	err := loadJSON(path, &s.links)
	if s.links == nil {
		s.links = make(map[string]string)
	}
	return s, err
}

func (s *LinkFile) Get(userID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.links[strconv.FormatInt(userID, 10)]
	return name, ok
}

// Set binds a game name to a chat identity, last write wins. Nothing stops
// two identities from claiming the same game name; per-identity uniqueness
// is the only invariant here.
func (s *LinkFile) Set(userID int64, gameName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[strconv.FormatInt(userID, 10)] = gameName
	return saveJSON(s.path, s.links)
}

func (s *LinkFile) Delete(userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strconv.FormatInt(userID, 10)
	if _, ok := s.links[key]; !ok {
		return false, nil
	}
	delete(s.links, key)
	return true, saveJSON(s.path, s.links)
}

func (s *LinkFile) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}
