// Package alphabet maps residue characters to internal sequence letters.
package alphabet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Letter is an internal sequence symbol. Its value is an index into the
// owning alphabet's symbol string.
type Letter byte

// ErrInvalidCharacter is returned when a byte has no letter in an alphabet.
var ErrInvalidCharacter = errors.New("invalid sequence character")

// CharacterError reports the byte that an alphabet rejected.
type CharacterError struct {
	Char     byte
	Alphabet string
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("%s: %q is not a %s residue", ErrInvalidCharacter, e.Char, e.Alphabet)
}

func (e *CharacterError) Unwrap() error {
	return ErrInvalidCharacter
}

// Encoder converts a residue byte into a Letter.
type Encoder interface {
	Encode(c byte) (Letter, error)
}

// Decoder converts a Letter back into its canonical residue byte.
type Decoder interface {
	Decode(l Letter) (byte, error)
}

// Alphabet is an immutable byte<->letter table. It is safe for concurrent use.
type Alphabet struct {
	name     string
	symbols  string
	identity bool
	table    [256]int16 // -1 means not in the alphabet
}

// Built-in alphabets.
var (
	// Nucleotide accepts ACGTN in either case. U reads as T and the IUPAC
	// ambiguity codes collapse to N.
	Nucleotide = newAlphabet("nucleotide", "ACGTN", map[byte]byte{
		'U': 'T',
		'R': 'N', 'Y': 'N', 'S': 'N', 'W': 'N', 'K': 'N', 'M': 'N',
		'B': 'N', 'D': 'N', 'H': 'N', 'V': 'N',
	})

	// Protein accepts the 20 standard amino acids, the ambiguity codes B, J,
	// Z, X and the stop symbol. Selenocysteine, pyrrolysine and gaps read as X.
	Protein = newAlphabet("protein", "ARNDCQEGHILKMFPSTWYVBJZX*", map[byte]byte{
		'U': 'X', 'O': 'X', '-': 'X',
	})

	// Raw passes every byte through unchanged.
	Raw = &Alphabet{name: "raw", identity: true}
)

var builtin = map[string]*Alphabet{
	Nucleotide.name: Nucleotide,
	Protein.name:    Protein,
	Raw.name:        Raw,
}

func newAlphabet(name, symbols string, aliases map[byte]byte) *Alphabet {
	a := &Alphabet{name: name, symbols: symbols}
	for i := range a.table {
		a.table[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		a.table[c] = int16(i)
		a.table[toLower(c)] = int16(i)
	}
	for from, to := range aliases {
		idx := a.table[to]
		a.table[from] = idx
		a.table[toLower(from)] = idx
	}
	return a
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Lookup returns the built-in alphabet with the given name.
func Lookup(name string) (*Alphabet, error) {
	a, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown alphabet %q (must be one of %s)", name, strings.Join(Names(), ", "))
	}
	return a, nil
}

// Names returns the names of the built-in alphabets in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the alphabet name.
func (a *Alphabet) Name() string {
	return a.name
}

// Size returns the number of distinct letters.
func (a *Alphabet) Size() int {
	if a.identity {
		return 256
	}
	return len(a.symbols)
}

// Encode maps a residue byte to its letter.
func (a *Alphabet) Encode(c byte) (Letter, error) {
	if a.identity {
		return Letter(c), nil
	}
	idx := a.table[c]
	if idx < 0 {
		return 0, &CharacterError{Char: c, Alphabet: a.name}
	}
	return Letter(idx), nil
}

// Decode maps a letter to its canonical upper-case residue byte.
func (a *Alphabet) Decode(l Letter) (byte, error) {
	if a.identity {
		return byte(l), nil
	}
	if int(l) >= len(a.symbols) {
		return 0, fmt.Errorf("letter %d out of range for %s alphabet", l, a.name)
	}
	return a.symbols[l], nil
}

// String decodes a whole sequence, substituting '?' for out-of-range letters.
func (a *Alphabet) String(seq []Letter) string {
	var sb strings.Builder
	sb.Grow(len(seq))
	for _, l := range seq {
		c, err := a.Decode(l)
		if err != nil {
			c = '?'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
