package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapExtractResult(t *testing.T) {
	wrapped := WrapResult("report body")
	require.Equal(t, "BEGIN_RESULT\nreport body\nEND_RESULT", wrapped)
	require.Equal(t, "report body\n", ExtractResult(wrapped))
}

func TestExtractResultPassesPlainRepliesThrough(t *testing.T) {
	require.Equal(t, "OK", ExtractResult("OK"))
	require.Equal(t, ReplyNotAuthenticated, ExtractResult(ReplyNotAuthenticated))
}

func TestReplyBadCredentials(t *testing.T) {
	require.Equal(t, "ERROR Credenziali non valide. Tentativi rimasti: 2", ReplyBadCredentials(2))
}

func TestReplyAlreadyAuthenticated(t *testing.T) {
	require.Equal(t, "OK Gia' autenticato come filippo", ReplyAlreadyAuthenticated("filippo"))
}
