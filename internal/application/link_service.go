package application

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"craftgate/internal/models"
	"craftgate/internal/repository"
)

var (
	// ErrNoScore: the trigger score could not be read (player offline or
	// never ran the trigger command).
	ErrNoScore = errors.New("no readable trigger score")
	// ErrBadCode: the code does not exist, expired, or was already used.
	ErrBadCode = errors.New("code invalid or expired")
	// ErrWrongOwner: a valid code, but issued to a different chat user.
	// The code is destroyed anyway so it cannot be replayed.
	ErrWrongOwner = errors.New("code issued to another user")
)

const codeSpace = 1000000

// codeRegistry holds outstanding challenge codes in memory. A code lives
// until it is consumed or until its TTL passes; expired entries are dropped
// lazily on lookup.
type codeRegistry struct {
	mu    sync.Mutex
	codes map[string]models.LinkCode
	ttl   time.Duration
	now   func() time.Time
}

func newCodeRegistry(ttl time.Duration) *codeRegistry {
	return &codeRegistry{
		codes: make(map[string]models.LinkCode),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *codeRegistry) Issue(ownerID int64) string {
	code := generateCode()
	r.mu.Lock()
	defer r.mu.Unlock()
	// A colliding unconsumed code is overwritten, last writer wins.
	r.codes[code] = models.LinkCode{
		Code:      code,
		OwnerID:   ownerID,
		ExpiresAt: r.now().Add(r.ttl),
	}
	return code
}

// Consume is an atomic check-and-delete: a code can succeed at most once.
func (r *codeRegistry) Consume(code string) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.codes[code]
	if !ok {
		return 0, false
	}
	delete(r.codes, code)
	if entry.Expired(r.now()) {
		return 0, false
	}
	return entry.OwnerID, true
}

func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		// Clock fallback if the system RNG is unavailable.
		return fmt.Sprintf("%06d", time.Now().UnixMilli()%codeSpace)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

type LinkService interface {
	RequestLink(userID int64) (code string, ttl time.Duration)
	Verify(userID int64, gameName string) error
	Unlink(userID int64) bool
	LinkedName(userID int64) (string, bool)
}

type LinkServiceImpl struct {
	codes     *codeRegistry
	links     repository.Links
	console   Console
	objective string
	logger    Logger
}

func NewLinkServiceImpl(links repository.Links, console Console, objective string,
	ttl time.Duration, logger Logger) *LinkServiceImpl {
	return &LinkServiceImpl{
		codes:     newCodeRegistry(ttl),
		links:     links,
		console:   console,
		objective: objective,
		logger:    logger,
	}
}

func (s *LinkServiceImpl) RequestLink(userID int64) (string, time.Duration) {
	code := s.codes.Issue(userID)
	s.logger.Info("issued link code for user %d", userID)
	return code, s.codes.ttl
}

// Verify closes the loop: the user typed the issued code into the in-game
// trigger objective for gameName, and we read it back over the console.
// Only someone who controls both the chat account and the game character
// can make the two ends agree.
func (s *LinkServiceImpl) Verify(userID int64, gameName string) error {
	// Best-effort setup; the objective usually exists already and the
	// trigger may already be enabled.
	if _, err := s.console.Execute(fmt.Sprintf("scoreboard objectives add %s trigger", s.objective)); err != nil {
		s.logger.Debug("objective add: %s", err.Error())
	}
	if _, err := s.console.Execute(fmt.Sprintf("scoreboard players enable %s %s", gameName, s.objective)); err != nil {
		s.logger.Debug("trigger enable: %s", err.Error())
	}

	out, err := s.console.Execute(fmt.Sprintf("scoreboard players get %s %s", gameName, s.objective))
	if err != nil {
		return ErrNoScore
	}
	score, ok := parseScore(out)
	if !ok {
		return ErrNoScore
	}

	owner, ok := s.codes.Consume(fmt.Sprintf("%06d", score))
	if !ok {
		return ErrBadCode
	}
	if owner != userID {
		s.logger.Warn("user %d presented a code issued to %d", userID, owner)
		return ErrWrongOwner
	}

	if err := s.links.Set(userID, gameName); err != nil {
		// In-memory state stays authoritative until the next save.
		s.logger.Error("saving link for %d: %s", userID, err.Error())
	}

	// Cleanliness, not correctness: the code is already destroyed.
	if _, err := s.console.Execute(fmt.Sprintf("scoreboard players reset %s %s", gameName, s.objective)); err != nil {
		s.logger.Debug("score reset: %s", err.Error())
	}

	s.logger.Info("linked user %d to %s", userID, gameName)
	return nil
}

func (s *LinkServiceImpl) Unlink(userID int64) bool {
	removed, err := s.links.Delete(userID)
	if err != nil {
		s.logger.Error("removing link for %d: %s", userID, err.Error())
	}
	if removed {
		s.logger.Info("unlinked user %d", userID)
	}
	return removed
}

func (s *LinkServiceImpl) LinkedName(userID int64) (string, bool) {
	return s.links.Get(userID)
}

// parseScore picks the score out of a reply like
// "Nova has 7331 [tgauth]": the last integer token wins.
func parseScore(out string) (int, bool) {
	fields := strings.Fields(out)
	for i := len(fields) - 1; i >= 0; i-- {
		if n, err := strconv.Atoi(fields[i]); err == nil {
			return n, true
		}
	}
	return 0, false
}
