package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorcon/rcon"
)

// Client talks to the game server over RCON. Every Execute opens a fresh
// connection: the remote side keeps all session state (scoreboards,
// player lists), so each command is an independent transaction.
type Client struct {
	address  string
	password string
	timeout  time.Duration
}

func NewClient(address, password string, timeout time.Duration) *Client {
	return &Client{
		address:  address,
		password: password,
		timeout:  timeout,
	}
}

func (c *Client) Execute(command string) (string, error) {
	conn, err := rcon.Dial(c.address, c.password,
		rcon.SetDialTimeout(c.timeout),
		rcon.SetDeadline(c.timeout),
	)
	if err != nil {
		return "", fmt.Errorf("rcon dial %s: %w", c.address, err)
	}
	defer conn.Close()

	resp, err := conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("rcon execute: %w", err)
	}
	return strings.TrimSpace(resp), nil
}
