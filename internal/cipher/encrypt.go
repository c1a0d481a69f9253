package cipher

import (
	"math/rand/v2"
)

const scrambleSwaps = 500

// Scramble returns a complete random legend in which no letter maps to
// itself.
func Scramble(rng *rand.Rand) Legend {
	l := Legend{}
	for i := range l.key {
		l.key[i] = byte('a' + i)
	}

	for i := 0; i < scrambleSwaps; i++ {
		a := rng.IntN(26)
		b := (a + rng.IntN(26)) % 26
		l.key[a], l.key[b] = l.key[b], l.key[a]
	}

	// Swap away any letter that stayed put
	for i := range l.key {
		if l.key[i] != byte('a'+i) {
			continue
		}
		j := (i + rng.IntN(26)) % 26
		if j == i {
			j = (i + 1) % 26
		}
		l.key[i], l.key[j] = l.key[j], l.key[i]
	}

	return l
}

// Hint is a known cipher => plain pair handed out with a puzzle.
type Hint struct {
	Cipher byte
	Plain  byte
}

func (h Hint) String() string {
	return string([]byte{h.Cipher, '=', h.Plain})
}

// Encrypt turns plaintext into a puzzle with a freshly scrambled key. It
// returns the ciphertext, the key used to decode it and one hint taken from
// a random letter of the plaintext.
func Encrypt(plaintext string, rng *rand.Rand) (string, Legend, Hint, error) {
	if err := Validate(plaintext); err != nil {
		return "", Legend{}, Hint{}, err
	}

	dec := Scramble(rng)
	text := dec.PlainToCipherString(plaintext)

	start := rng.IntN(len(plaintext))
	for n := 0; n < len(plaintext); n++ {
		i := (start + n) % len(plaintext)
		if isLetter(plaintext[i]) {
			p := lower(plaintext[i])
			return text, dec, Hint{Cipher: dec.PlainToCipherChar(p), Plain: p}, nil
		}
	}
	return "", Legend{}, Hint{}, ErrNoCipherwords
}
