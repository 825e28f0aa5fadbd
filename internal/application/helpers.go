package application

import "strings"

const (
	replyLimit    = 3500
	truncatedMark = "\n...(truncated)"
)

// trimReply keeps a console or report reply inside the chat message limit.
func trimReply(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "Empty reply."
	}
	if len(text) > replyLimit {
		return text[:replyLimit] + truncatedMark
	}
	return text
}

// parsePlayers extracts names from a reply like
// "There are 2 of a max of 20 players online: Nova, Ash".
func parsePlayers(listOutput string) []string {
	_, after, found := strings.Cut(listOutput, ":")
	if !found {
		return nil
	}
	var players []string
	for _, part := range strings.Split(after, ",") {
		if name := strings.TrimSpace(part); name != "" {
			players = append(players, name)
		}
	}
	return players
}
