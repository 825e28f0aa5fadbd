package application

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"craftgate/internal/models"
)

// Bottom-panel button labels. Exact strings double as FSM inputs.
const (
	BtnOnline   = "Online"
	BtnTeleport = "Teleport"
	BtnMode     = "Mode"
	BtnLink     = "Link"
	BtnUnlink   = "Unlink"
	BtnHelp     = "Help"
	BtnAdmin    = "Admin"

	BtnBack   = "Back"
	BtnCoords = "Coordinates"

	BtnSurvival  = "Survival"
	BtnCreative  = "Creative"
	BtnAdventure = "Adventure"
	BtnSpectator = "Spectator"

	BtnUsers   = "Users"
	BtnBackup  = "Backup"
	BtnStop    = "Stop"
	BtnStart   = "Start"
	BtnRestart = "Restart"
	BtnLogs    = "Logs"
)

type KeyboardKind int

const (
	KbNone KeyboardKind = iota
	KbMain
	KbAdmin
	KbTeleport
	KbBack
	KbGameMode
)

// Keyboard describes the reply panel declaratively; the delivery layer
// renders it. Players fills the teleport menu, Linked and ShowAdmin shape
// the main menu.
type Keyboard struct {
	Kind      KeyboardKind
	Players   []string
	Linked    bool
	ShowAdmin bool
}

type Reply struct {
	Text     string
	Keyboard Keyboard
}

const (
	msgNotLinked     = "Link your account first via /start."
	msgNotAllowed    = "Not allowed."
	msgConsoleErr    = "Server offline or console unreachable."
	msgDone          = "Done."
	msgNotUnderstood = "Didn't catch that."
)

var gameModes = map[string]string{
	BtnSurvival:  "survival",
	BtnCreative:  "creative",
	BtnAdventure: "adventure",
	BtnSpectator: "spectator",
}

type SessionService interface {
	HandleText(userID, chatID int64, text string) Reply
	HandleStart(userID, chatID int64) Reply
	HandleCheck(userID, chatID int64, args []string) Reply
	HandleUnlink(userID, chatID int64) Reply
	HandleOnline(userID, chatID int64) Reply
	HandleTeleport(userID, chatID int64, args []string) Reply
	HandleGameMode(userID, chatID int64, args []string) Reply
	HandleRawCommand(userID, chatID int64, commandLine string) Reply
	HandleReloadCommands(userID, chatID int64) Reply
	HandleHelp(userID, chatID int64) Reply
	SetNotifier(notify func(chatID int64, text string))
}

type SessionServiceImpl struct {
	mu       sync.Mutex
	sessions map[int64]*models.Conversation

	link      LinkService
	directory DirectoryService
	policy    *CommandPolicy
	gate      *AdminGate
	console   Console
	control   ServerControl
	logger    Logger

	objective    string
	restartDelay time.Duration
	notify       func(chatID int64, text string)
}

func NewSessionServiceImpl(link LinkService, directory DirectoryService, policy *CommandPolicy,
	gate *AdminGate, console Console, control ServerControl, opts Options, logger Logger) *SessionServiceImpl {
	return &SessionServiceImpl{
		sessions:     make(map[int64]*models.Conversation),
		link:         link,
		directory:    directory,
		policy:       policy,
		gate:         gate,
		console:      console,
		control:      control,
		logger:       logger,
		objective:    opts.TriggerObjective,
		restartDelay: opts.RestartDelay,
	}
}

// SetNotifier installs the callback used to report deferred restart
// completion back into the chat. Wired once at startup.
func (s *SessionServiceImpl) SetNotifier(notify func(chatID int64, text string)) {
	s.notify = notify
}

func (s *SessionServiceImpl) phase(userID int64) models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.sessions[userID]; ok {
		return conv.Phase
	}
	return models.PhaseMain
}

func (s *SessionServiceImpl) setPhase(userID int64, phase models.Phase, players []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &models.Conversation{Phase: phase, PendingPlayers: players}
}

func (s *SessionServiceImpl) pendingPlayers(userID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.sessions[userID]; ok {
		return conv.PendingPlayers
	}
	return nil
}

func (s *SessionServiceImpl) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// HandleText routes a non-command message through the per-user menu state.
func (s *SessionServiceImpl) HandleText(userID, chatID int64, text string) Reply {
	text = strings.TrimSpace(text)

	// Back always works, from any phase.
	if text == BtnBack {
		s.reset(userID)
		return s.mainReply(userID, chatID, "Ok.")
	}

	if text == BtnAdmin && s.gate.CanAdminister(userID, chatID) {
		s.setPhase(userID, models.PhaseAdmin, nil)
		return Reply{Text: "Admin panel.", Keyboard: Keyboard{Kind: KbAdmin}}
	}

	switch s.phase(userID) {
	case models.PhaseAdmin:
		if s.gate.CanAdminister(userID, chatID) {
			return s.adminInput(userID, chatID, text)
		}
		s.reset(userID)
		return s.mainInput(userID, chatID, text)
	case models.PhaseTeleportMenu:
		return s.teleportMenuInput(userID, chatID, text)
	case models.PhaseTeleportCoords:
		return s.teleportCoordsInput(userID, chatID, text)
	case models.PhaseGameModeMenu:
		return s.gameModeInput(userID, chatID, text)
	default:
		return s.mainInput(userID, chatID, text)
	}
}

func (s *SessionServiceImpl) mainInput(userID, chatID int64, text string) Reply {
	switch text {
	case BtnHelp:
		return s.HandleHelp(userID, chatID)

	case BtnLink:
		if _, linked := s.link.LinkedName(userID); linked {
			return s.mainReply(userID, chatID, "You are already linked.")
		}
		return s.linkInstructions(userID, chatID)

	case BtnUnlink:
		return s.HandleUnlink(userID, chatID)

	case BtnOnline:
		return s.mainReply(userID, chatID, s.onlineText())

	case BtnTeleport:
		if !s.policy.IsAllowed("tp") {
			return s.mainReply(userID, chatID, "Teleport is disabled by the admin.")
		}
		if _, linked := s.link.LinkedName(userID); !linked {
			return s.mainReply(userID, chatID, msgNotLinked)
		}
		players := s.onlinePlayers()
		s.setPhase(userID, models.PhaseTeleportMenu, players)
		if len(players) == 0 {
			return Reply{
				Text:     "Nobody is online. Pick Coordinates or Back.",
				Keyboard: Keyboard{Kind: KbTeleport},
			}
		}
		return Reply{
			Text:     "Pick a player, or Coordinates:",
			Keyboard: Keyboard{Kind: KbTeleport, Players: players},
		}

	case BtnMode:
		if !s.policy.IsAllowed("gamemode") {
			return s.mainReply(userID, chatID, "Game mode change is disabled by the admin.")
		}
		if _, linked := s.link.LinkedName(userID); !linked {
			return s.mainReply(userID, chatID, msgNotLinked)
		}
		s.setPhase(userID, models.PhaseGameModeMenu, nil)
		return Reply{Text: "Pick a mode:", Keyboard: Keyboard{Kind: KbGameMode}}

	default:
		return s.mainReply(userID, chatID, msgNotUnderstood+" Use the buttons below or /start.")
	}
}

func (s *SessionServiceImpl) teleportMenuInput(userID, chatID int64, text string) Reply {
	gameName, linked := s.link.LinkedName(userID)
	if !linked {
		s.reset(userID)
		return s.mainReply(userID, chatID, msgNotLinked)
	}

	if text == BtnCoords {
		s.setPhase(userID, models.PhaseTeleportCoords, nil)
		return Reply{Text: "Enter coordinates: x y z", Keyboard: Keyboard{Kind: KbBack}}
	}

	players := s.pendingPlayers(userID)
	for _, p := range players {
		if text == p {
			resp, err := s.console.Execute(fmt.Sprintf("tp %s %s", gameName, text))
			s.reset(userID)
			if err != nil {
				s.logger.Warn("teleport failed: %s", err.Error())
				return s.mainReply(userID, chatID, msgConsoleErr)
			}
			return s.mainReply(userID, chatID, orDone(resp))
		}
	}

	return Reply{
		Text:     "Pick a player from the list, Coordinates, or Back.",
		Keyboard: Keyboard{Kind: KbTeleport, Players: players},
	}
}

func (s *SessionServiceImpl) teleportCoordsInput(userID, chatID int64, text string) Reply {
	gameName, linked := s.link.LinkedName(userID)
	if !linked {
		s.reset(userID)
		return s.mainReply(userID, chatID, msgNotLinked)
	}

	x, y, z, ok := parseCoords(text)
	if !ok {
		// Bad input keeps the user in the coordinate prompt.
		return Reply{Text: "Need three numbers: x y z (or Back).", Keyboard: Keyboard{Kind: KbBack}}
	}

	resp, err := s.console.Execute(fmt.Sprintf("tp %s %s %s %s", gameName, x, y, z))
	s.reset(userID)
	if err != nil {
		s.logger.Warn("teleport failed: %s", err.Error())
		return s.mainReply(userID, chatID, msgConsoleErr)
	}
	return s.mainReply(userID, chatID, orDone(resp))
}

func (s *SessionServiceImpl) gameModeInput(userID, chatID int64, text string) Reply {
	gameName, linked := s.link.LinkedName(userID)
	if !linked {
		s.reset(userID)
		return s.mainReply(userID, chatID, msgNotLinked)
	}

	mode, ok := gameModes[text]
	if !ok {
		return Reply{Text: "Pick a mode with the buttons, or Back.", Keyboard: Keyboard{Kind: KbGameMode}}
	}

	resp, err := s.console.Execute(fmt.Sprintf("gamemode %s %s", mode, gameName))
	s.reset(userID)
	if err != nil {
		s.logger.Warn("gamemode failed: %s", err.Error())
		return s.mainReply(userID, chatID, msgConsoleErr)
	}
	return s.mainReply(userID, chatID, orDone(resp))
}

func (s *SessionServiceImpl) adminInput(userID, chatID int64, text string) Reply {
	adminReply := func(text string) Reply {
		return Reply{Text: text, Keyboard: Keyboard{Kind: KbAdmin}}
	}

	switch text {
	case BtnOnline:
		return adminReply(s.onlineText())

	case BtnUsers:
		return adminReply(s.directory.UsersReport())

	case BtnBackup:
		if _, err := s.console.Execute("backuper backup local"); err != nil {
			s.logger.Warn("backup failed: %s", err.Error())
			return adminReply(msgConsoleErr)
		}
		return adminReply("Backup started.")

	case BtnStop:
		if _, err := s.console.Execute("stop"); err != nil {
			s.logger.Warn("stop failed: %s", err.Error())
			return adminReply(msgConsoleErr)
		}
		return adminReply("Sent stop.")

	case BtnStart:
		if err := s.control.StartDetached(); err != nil {
			return adminReply("Start failed: " + err.Error())
		}
		return adminReply("Start script launched.")

	case BtnRestart:
		if _, err := s.console.Execute("stop"); err != nil {
			s.logger.Warn("stop before restart: %s", err.Error())
		}
		scheduled := s.control.ScheduleStart(s.restartDelay, func(err error) {
			if s.notify == nil {
				return
			}
			if err != nil {
				s.notify(chatID, "Start failed: "+err.Error())
				return
			}
			s.notify(chatID, "Start script launched.")
		})
		if !scheduled {
			return adminReply("A restart is already pending.")
		}
		return adminReply(fmt.Sprintf("Restart: starting again in %d seconds.", int(s.restartDelay.Seconds())))

	case BtnLogs:
		out, errOut := s.control.Tail(40, 80)
		if out == "" {
			out = "(empty)"
		}
		if errOut == "" {
			errOut = "(empty)"
		}
		return adminReply(trimReply("stdout:\n" + out + "\n\nstderr:\n" + errOut))

	default:
		return adminReply(msgNotUnderstood + " Press Back to leave the panel.")
	}
}

// HandleStart greets the user; an unlinked user gets a fresh challenge code.
func (s *SessionServiceImpl) HandleStart(userID, chatID int64) Reply {
	s.reset(userID)
	if gameName, linked := s.link.LinkedName(userID); linked {
		return s.mainReply(userID, chatID,
			fmt.Sprintf("Account linked: %s\nUse the buttons below.", gameName))
	}
	return s.linkInstructions(userID, chatID)
}

func (s *SessionServiceImpl) linkInstructions(userID, chatID int64) Reply {
	code, ttl := s.link.RequestLink(userID)
	text := fmt.Sprintf(
		"Account linking:\n\n"+
			"1) In Minecraft run:\n/trigger %s set %s\n\n"+
			"2) Then here:\n/check <your_nick>\n\n"+
			"The code is valid for %d seconds.",
		s.objective, code, int(ttl.Seconds()))
	return s.mainReply(userID, chatID, text)
}

func (s *SessionServiceImpl) HandleCheck(userID, chatID int64, args []string) Reply {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return s.mainReply(userID, chatID, "Usage: /check <your_nick>")
	}
	gameName := strings.TrimSpace(args[0])

	err := s.link.Verify(userID, gameName)
	switch {
	case err == nil:
		return s.mainReply(userID, chatID, "Linked: "+gameName)
	case errors.Is(err, ErrNoScore):
		return s.mainReply(userID, chatID,
			"Could not read the trigger value. Make sure you are on the server and ran /trigger.")
	case errors.Is(err, ErrWrongOwner):
		return s.mainReply(userID, chatID, "That code was issued to someone else. Get your own via /start.")
	default:
		return s.mainReply(userID, chatID, "Code invalid or expired. Get a new one via /start.")
	}
}

func (s *SessionServiceImpl) HandleUnlink(userID, chatID int64) Reply {
	if s.link.Unlink(userID) {
		return s.mainReply(userID, chatID, "Account unlinked.")
	}
	return s.mainReply(userID, chatID, "You had no link.")
}

func (s *SessionServiceImpl) HandleOnline(userID, chatID int64) Reply {
	return s.mainReply(userID, chatID, s.onlineText())
}

// HandleTeleport serves /tp <name> and /tp <x y z>; the button flow above
// is the primary UX.
func (s *SessionServiceImpl) HandleTeleport(userID, chatID int64, args []string) Reply {
	if !s.policy.IsAllowed("tp") {
		return s.mainReply(userID, chatID, "Teleport is disabled by the admin.")
	}
	gameName, linked := s.link.LinkedName(userID)
	if !linked {
		return s.mainReply(userID, chatID, msgNotLinked)
	}

	var command string
	switch len(args) {
	case 1:
		command = fmt.Sprintf("tp %s %s", gameName, args[0])
	case 3:
		x, y, z, ok := parseCoords(strings.Join(args, " "))
		if !ok {
			return s.mainReply(userID, chatID, "Usage: /tp <nick> or /tp <x y z>")
		}
		command = fmt.Sprintf("tp %s %s %s %s", gameName, x, y, z)
	default:
		return s.mainReply(userID, chatID, "Usage: /tp <nick> or /tp <x y z>")
	}

	resp, err := s.console.Execute(command)
	if err != nil {
		s.logger.Warn("teleport failed: %s", err.Error())
		return s.mainReply(userID, chatID, msgConsoleErr)
	}
	return s.mainReply(userID, chatID, orDone(resp))
}

func (s *SessionServiceImpl) HandleGameMode(userID, chatID int64, args []string) Reply {
	if !s.policy.IsAllowed("gamemode") {
		return s.mainReply(userID, chatID, "Game mode change is disabled by the admin.")
	}
	gameName, linked := s.link.LinkedName(userID)
	if !linked {
		return s.mainReply(userID, chatID, msgNotLinked)
	}
	if len(args) < 1 {
		return s.mainReply(userID, chatID, "Usage: /gamemode <survival|creative|adventure|spectator>")
	}

	mode, ok := normalizeGameMode(args[0])
	if !ok {
		return s.mainReply(userID, chatID, "Allowed: survival, creative, adventure, spectator")
	}

	resp, err := s.console.Execute(fmt.Sprintf("gamemode %s %s", mode, gameName))
	if err != nil {
		s.logger.Warn("gamemode failed: %s", err.Error())
		return s.mainReply(userID, chatID, msgConsoleErr)
	}
	return s.mainReply(userID, chatID, orDone(resp))
}

// HandleRawCommand forwards a free-text console command, admins only.
// Denied callers never reach the console.
func (s *SessionServiceImpl) HandleRawCommand(userID, chatID int64, commandLine string) Reply {
	if !s.gate.CanAdminister(userID, chatID) {
		return s.mainReply(userID, chatID, msgNotAllowed)
	}
	commandLine = strings.TrimSpace(commandLine)
	if commandLine == "" {
		return Reply{Text: "Usage: /cmd <command>", Keyboard: Keyboard{Kind: KbAdmin}}
	}

	resp, err := s.console.Execute(commandLine)
	if err != nil {
		s.logger.Warn("raw command failed: %s", err.Error())
		return Reply{Text: msgConsoleErr, Keyboard: Keyboard{Kind: KbAdmin}}
	}
	return Reply{Text: trimReply(resp), Keyboard: Keyboard{Kind: KbAdmin}}
}

func (s *SessionServiceImpl) HandleReloadCommands(userID, chatID int64) Reply {
	if !s.gate.CanAdminister(userID, chatID) {
		return s.mainReply(userID, chatID, msgNotAllowed)
	}
	if err := s.policy.Reload(); err != nil {
		s.logger.Error("policy reload: %s", err.Error())
		return Reply{Text: "Reload failed, previous list kept.", Keyboard: Keyboard{Kind: KbAdmin}}
	}
	return Reply{Text: "Command list reloaded.", Keyboard: Keyboard{Kind: KbAdmin}}
}

func (s *SessionServiceImpl) HandleHelp(userID, chatID int64) Reply {
	return s.mainReply(userID, chatID,
		"Buttons below:\n"+
			"- Online: who is on the server\n"+
			"- Teleport: to a player or coordinates\n"+
			"- Mode: change your game mode\n"+
			"- Link/Unlink: bind your account\n\n"+
			"Commands:\n/start, /online, /check <nick>, /tp, /gamemode, /unlink")
}

func (s *SessionServiceImpl) mainReply(userID, chatID int64, text string) Reply {
	_, linked := s.link.LinkedName(userID)
	return Reply{
		Text: text,
		Keyboard: Keyboard{
			Kind:      KbMain,
			Linked:    linked,
			ShowAdmin: s.gate.CanAdminister(userID, chatID),
		},
	}
}

func (s *SessionServiceImpl) onlineText() string {
	out, err := s.console.Execute("list")
	if err != nil {
		s.logger.Warn("list failed: %s", err.Error())
		return msgConsoleErr
	}
	return trimReply(out)
}

func (s *SessionServiceImpl) onlinePlayers() []string {
	out, err := s.console.Execute("list")
	if err != nil {
		s.logger.Warn("list failed: %s", err.Error())
		return nil
	}
	return parsePlayers(out)
}

func parseCoords(text string) (x, y, z string, ok bool) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(p, 64); err != nil {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

func normalizeGameMode(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "survival", "s":
		return "survival", true
	case "creative", "c":
		return "creative", true
	case "adventure", "a":
		return "adventure", true
	case "spectator", "sp":
		return "spectator", true
	default:
		return "", false
	}
}

func orDone(resp string) string {
	if resp == "" {
		return msgDone
	}
	return trimReply(resp)
}
