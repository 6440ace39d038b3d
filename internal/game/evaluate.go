package game

import "github.com/lhcxx/wordle/internal/words"

// Evaluate scores guess against candidate. Both must be words.Length long.
//
// Pass 1:
//   - Mark exact matches as Hit and consume that candidate position.
//
// Pass 2:
//   - For each non-hit guess letter, take the leftmost unconsumed candidate
//     position holding the same letter: Present, and consume it. None left
//     means Miss.
//
// Hits must be fully resolved before any Present is handed out, otherwise a
// repeated letter can claim a position that is really a hit elsewhere.
func Evaluate(guess, candidate string) Pattern {
	var res Pattern
	var used [words.Length]bool

	for i := 0; i < words.Length; i++ {
		if guess[i] == candidate[i] {
			res[i] = MarkHit
			used[i] = true
		}
	}

	for i := 0; i < words.Length; i++ {
		if res[i] == MarkHit {
			continue
		}
		for j := 0; j < words.Length; j++ {
			if !used[j] && guess[i] == candidate[j] {
				res[i] = MarkPresent
				used[j] = true
				break
			}
		}
		if res[i] == markUnset {
			res[i] = MarkMiss
		}
	}
	return res
}
