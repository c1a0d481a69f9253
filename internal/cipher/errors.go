package cipher

import "errors"

var (
	ErrEmptyCiphertext  = errors.New("empty ciphertext")
	ErrIllegalCharacter = errors.New("illegal character in ciphertext")
	ErrNoCipherwords    = errors.New("no words in ciphertext")
	ErrBadHint          = errors.New("invalid key hint")
	ErrConflictingHint  = errors.New("conflicting key hint")
)
