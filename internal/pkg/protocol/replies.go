package protocol

import (
	"fmt"
	"strings"
)

// Reply strings. These are the wire protocol and must not be reworded.
const (
	ReplyOK               = "OK"
	ReplyBye              = "BYE"
	ReplyNotAuthenticated = "ERROR Non autenticato. Invia prima: AUTH username password"
	ReplyAuthFormat       = "ERROR Formato: AUTH username password"
	ReplyLockedRetry      = "ERROR Troppi tentativi falliti. Riprova piu' tardi."
	ReplyLockedOut        = "ERROR Troppi tentativi falliti. Sessione bloccata."
	ReplyUnknownCommand   = "ERROR Comando sconosciuto. Usa HELP per la lista comandi."

	ErrSimulateFormat        = "ERROR Formato: SIMULATE velocity angle mass dragCoeff"
	ErrSimulateNotNumeric    = "ERROR Parametri devono essere numeri validi"
	ErrSimulateInvalidPrefix = "ERROR Parametri invalidi: "

	BeginResult = "BEGIN_RESULT"
	EndResult   = "END_RESULT"
)

// HelpText is the command reference returned for HELP, without the result markers.
const HelpText = `=== COMANDI DISPONIBILI ===
SIMULATE velocity angle mass dragCoeff
  - velocity: velocita' iniziale in m/s (> 0)
  - angle: angolo di lancio in gradi (0-90)
  - mass: massa del proiettile in kg (> 0)
  - dragCoeff: coefficiente di drag (> 0, tipico 0.47 per sfere)

HELP  - Mostra questo messaggio
QUIT  - Disconnetti dal server`

// ReplyAlreadyAuthenticated is the AUTH reply for a session that already holds a user.
func ReplyAlreadyAuthenticated(username string) string {
	return "OK Gia' autenticato come " + username
}

// ReplyBadCredentials reports a failed attempt and how many remain.
func ReplyBadCredentials(remaining int) string {
	return fmt.Sprintf("ERROR Credenziali non valide. Tentativi rimasti: %d", remaining)
}

// WrapResult wraps a report body between the result markers.
func WrapResult(body string) string {
	return BeginResult + "\n" + body + "\n" + EndResult
}

// ExtractResult returns the content between the result markers, or the reply
// unchanged when the markers are absent (plain OK/ERROR replies).
func ExtractResult(reply string) string {
	begin := strings.Index(reply, BeginResult)
	end := strings.Index(reply, EndResult)
	if begin == -1 || end == -1 || end < begin {
		return reply
	}
	return strings.TrimSpace(reply[begin+len(BeginResult):end]) + "\n"
}
