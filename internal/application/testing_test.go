package application

import (
	"errors"
	"sync"
	"time"

	"craftgate/internal/models"
)

type nopLogger struct{}

func (nopLogger) Error(format string, v ...interface{}) {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Debug(format string, v ...interface{}) {}

// fakeConsole records every command and answers through a scripted handler.
type fakeConsole struct {
	mu      sync.Mutex
	calls   []string
	handler func(cmd string) (string, error)
}

func (f *fakeConsole) Execute(cmd string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return "", nil
	}
	return h(cmd)
}

func (f *fakeConsole) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type memLinks struct {
	mu sync.Mutex
	m  map[int64]string
}

func newMemLinks() *memLinks {
	return &memLinks{m: make(map[int64]string)}
}

func (s *memLinks) Get(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.m[userID]
	return name, ok
}

func (s *memLinks) Set(userID int64, gameName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = gameName
	return nil
}

func (s *memLinks) Delete(userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[userID]; !ok {
		return false, nil
	}
	delete(s.m, userID)
	return true, nil
}

func (s *memLinks) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

type memUsers struct {
	records []models.UserRecord
}

func (s *memUsers) Touch(id int64, username, firstName, lastName string) error { return nil }
func (s *memUsers) All() []models.UserRecord                                   { return s.records }
func (s *memUsers) Count() int                                                 { return len(s.records) }

type fakeControl struct {
	mu        sync.Mutex
	startErr  error
	starts    int
	scheduled int
	refuse    bool
	out, errL string
}

func (f *fakeControl) StartDetached() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	return f.startErr
}

func (f *fakeControl) ScheduleStart(delay time.Duration, done func(error)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse {
		return false
	}
	f.scheduled++
	return true
}

func (f *fakeControl) Tail(stdoutLines, stderrLines int) (string, string) {
	return f.out, f.errL
}

var errConsoleDown = errors.New("connection refused")
