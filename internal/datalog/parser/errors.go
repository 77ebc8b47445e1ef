package parser

import "github.com/conduit-lang/datalog/internal/datalog/token"

// TokenError is the single error a parse can fail with: the first token
// that violated the grammar. Unlike a compiler that collects many errors
// and resynchronizes, this parser stops at the first failure, matching the
// "Failure!" contract of the interpreter's external interface.
type TokenError struct {
	Token   token.Token
	Message string
}

func (e *TokenError) Error() string {
	return e.Message
}

func newTokenError(t token.Token, message string) *TokenError {
	return &TokenError{Token: t, Message: message}
}
