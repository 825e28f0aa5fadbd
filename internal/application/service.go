package application

import (
	"time"

	"craftgate/internal/repository"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Console is the command channel into the game server.
type Console interface {
	Execute(command string) (string, error)
}

// ServerControl drives the server process outside of RCON: launching the
// start script and tailing its logs.
type ServerControl interface {
	StartDetached() error
	ScheduleStart(delay time.Duration, done func(error)) bool
	Tail(stdoutLines, stderrLines int) (string, string)
}

type Options struct {
	TriggerObjective string
	LinkCodeTTL      time.Duration
	RestartDelay     time.Duration
}

type Service struct {
	Link      LinkService
	Directory DirectoryService
	Session   SessionService
}

func NewService(repos *repository.Repository, console Console, control ServerControl,
	policy *CommandPolicy, gate *AdminGate, opts Options, logger Logger) *Service {

	link := NewLinkServiceImpl(repos.Links, console, opts.TriggerObjective, opts.LinkCodeTTL, logger)
	directory := NewDirectoryServiceImpl(repos.Users, logger)
	session := NewSessionServiceImpl(link, directory, policy, gate, console, control, opts, logger)

	return &Service{
		Link:      link,
		Directory: directory,
		Session:   session,
	}
}
