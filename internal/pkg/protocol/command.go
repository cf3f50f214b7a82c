package protocol

import "strings"

// Command is one client command parsed from a datagram payload.
// The concrete types form a closed set; dispatch switches over them.
type Command interface {
	isCommand()
}

// Auth carries the credentials of an AUTH command. Malformed is set when the
// line did not contain both a username and a password.
type Auth struct {
	Username  string
	Password  string
	Malformed bool
}

// Simulate carries the raw argument tokens of a SIMULATE command.
// Numeric parsing is left to the handler so it can reply with the
// protocol's distinct format and range errors.
type Simulate struct {
	Args []string
}

// Help requests the command reference.
type Help struct{}

// Quit terminates the session.
type Quit struct{}

// Unknown is any payload that matched no command form.
type Unknown struct {
	Text string
}

func (Auth) isCommand()     {}
func (Simulate) isCommand() {}
func (Help) isCommand()     {}
func (Quit) isCommand()     {}
func (Unknown) isCommand()  {}

// Parse classifies a datagram payload as one command variant.
// AUTH and SIMULATE verbs are case-sensitive; QUIT, EXIT and HELP are not.
func Parse(raw string) Command {
	text := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(text, "AUTH "):
		rest := strings.TrimSpace(text[len("AUTH "):])
		parts := strings.SplitN(rest, " ", 2)
		if len(parts) != 2 {
			return Auth{Malformed: true}
		}
		return Auth{
			Username: strings.TrimSpace(parts[0]),
			Password: strings.TrimSpace(parts[1]),
		}
	case strings.EqualFold(text, "QUIT"), strings.EqualFold(text, "EXIT"):
		return Quit{}
	case strings.HasPrefix(text, "SIMULATE "):
		return Simulate{Args: strings.Fields(text[len("SIMULATE "):])}
	case strings.EqualFold(text, "HELP"):
		return Help{}
	default:
		return Unknown{Text: text}
	}
}
