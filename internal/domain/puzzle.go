package domain

import (
	"encoding/json"
	"fmt"
	"io"
)

// Validator is an input/expected-output pair. Secret validators score
// submissions; public testcases back private dry-runs.
type Validator struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Puzzle is one coding problem. Validators are secret and used for grading;
// Testcases are the public pairs shown to players for dry-runs. The two lists
// are distinct and validator content must never reach a client.
type Puzzle struct {
	Title      string      `json:"title"`
	Statement  string      `json:"statement"`
	Validators []Validator `json:"validators"`
	Testcases  []Validator `json:"testcases"`
}

// PuzzleInfo is the client-safe view of a puzzle (no secret validators)
type PuzzleInfo struct {
	Title     string      `json:"title"`
	Statement string      `json:"statement"`
	Testcases []Validator `json:"testcases"`
}

// Public returns the client-safe view of the puzzle
func (p *Puzzle) Public() PuzzleInfo {
	return PuzzleInfo{
		Title:     p.Title,
		Statement: p.Statement,
		Testcases: p.Testcases,
	}
}

// LoadPuzzles decodes a JSON array of puzzles. Every puzzle must carry a
// title and at least one validator; the set itself must be non-empty.
func LoadPuzzles(r io.Reader) ([]Puzzle, error) {
	var puzzles []Puzzle
	if err := json.NewDecoder(r).Decode(&puzzles); err != nil {
		return nil, fmt.Errorf("decoding puzzles: %w", err)
	}

	if len(puzzles) == 0 {
		return nil, ErrNoPuzzles
	}

	for i, p := range puzzles {
		if p.Title == "" {
			return nil, fmt.Errorf("puzzle %d: missing title", i)
		}
		if len(p.Validators) == 0 {
			return nil, fmt.Errorf("puzzle %q: no validators", p.Title)
		}
	}

	return puzzles, nil
}
