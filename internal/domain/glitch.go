package domain

// glitchGlyphs is the fixed palette corruption characters are drawn from.
var glitchGlyphs = []rune("▒▓░◼◻◾◽▞▚▣▤▥▦▧▨▩◆◇◈✧✦✴✹✺✵✷✸✢✣✤✥※¤•·")

// Glitch replaces each non-blank character independently with a random
// palette glyph at the given probability.
func Glitch(lines []string, intensity float64, rng RNG) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		chars := []rune(ln)
		for j, c := range chars {
			if c != ' ' && rng.Float64() < intensity {
				chars[j] = glitchGlyphs[rng.Intn(len(glitchGlyphs))]
			}
		}
		out[i] = string(chars)
	}
	return out
}

// Corrupt replaces every non-blank character with a random palette glyph.
// This is the starting state of the void reveal.
func Corrupt(lines []string, rng RNG) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		chars := []rune(ln)
		for j, c := range chars {
			if c != ' ' {
				chars[j] = glitchGlyphs[rng.Intn(len(glitchGlyphs))]
			}
		}
		out[i] = string(chars)
	}
	return out
}

// Heal runs one healing pass: each character that differs from the target
// is independently restored with the given probability.
func Heal(current, target []string, probability float64, rng RNG) []string {
	out := make([]string, len(current))
	for i, ln := range current {
		chars := []rune(ln)
		tgt := []rune(target[i])
		for j := range chars {
			if j < len(tgt) && chars[j] != tgt[j] && rng.Float64() < probability {
				chars[j] = tgt[j]
			}
		}
		out[i] = string(chars)
	}
	return out
}

// Mask blanks every cell whose reveal-matrix entry is false. Rows beyond
// the matrix, and cells beyond a row's entries, stay hidden.
func Mask(target []string, revealed [][]bool) []string {
	out := make([]string, len(target))
	for i, ln := range target {
		chars := []rune(ln)
		var row []bool
		if i < len(revealed) {
			row = revealed[i]
		}
		for j := range chars {
			if j >= len(row) || !row[j] {
				chars[j] = ' '
			}
		}
		out[i] = string(chars)
	}
	return out
}
