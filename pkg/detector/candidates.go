package detector

import "github.com/ccollicutt/seqscan/pkg/alphabet"

// Candidate is an alphabet the detector can guess.
type Candidate struct {
	Name     string
	Alphabet *alphabet.Alphabet

	// Core holds the residues that count towards confidence. Ambiguity codes
	// the alphabet accepts are left out so that protein is not mistaken for
	// nucleotide.
	Core string

	// Threshold is the minimum confidence for the candidate to be chosen.
	Threshold float64
}

// DefaultCandidates returns the built-in candidates, most specific first.
func DefaultCandidates() []*Candidate {
	return []*Candidate{
		{
			Name:      "nucleotide",
			Alphabet:  alphabet.Nucleotide,
			Core:      "ACGTUN",
			Threshold: 0.9,
		},
		{
			Name:      "protein",
			Alphabet:  alphabet.Protein,
			Core:      "ACDEFGHIKLMNPQRSTVWYBJZXUO*",
			Threshold: 0.9,
		},
	}
}

type residueSet [256]bool

func newResidueSet(core string) *residueSet {
	var s residueSet
	for i := 0; i < len(core); i++ {
		c := core[i]
		s[c] = true
		if c >= 'A' && c <= 'Z' {
			s[c+'a'-'A'] = true
		}
	}
	return &s
}
