package domain

// Style is one fixed set of frame glyphs: four corners, the horizontal and
// vertical border runes, and an ornament string drawn centered in the
// header (and mirrored in the footer).
type Style struct {
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string
	Horizontal  string
	Vertical    string
	Ornament    string
}

// styles is the closed set of frame styles. Selection is random per draw.
var styles = []Style{
	{TopLeft: "╭", TopRight: "╮", BottomLeft: "╰", BottomRight: "╯", Horizontal: "─", Vertical: "│", Ornament: "☽☾"},
	{TopLeft: "┏", TopRight: "┓", BottomLeft: "┗", BottomRight: "┛", Horizontal: "━", Vertical: "┃", Ornament: "✦✦"},
	{TopLeft: "┌", TopRight: "┐", BottomLeft: "└", BottomRight: "┘", Horizontal: "─", Vertical: "│", Ornament: "❖"},
	{TopLeft: "╔", TopRight: "╗", BottomLeft: "╚", BottomRight: "╝", Horizontal: "═", Vertical: "║", Ornament: "✶✶"},
}

// RandomStyle picks one of the frame styles.
func RandomStyle(rng RNG) Style {
	return styles[rng.Intn(len(styles))]
}

// Flicker returns a copy of the style with the ornament reversed, used for
// the brief post-reveal flicker effect.
func (s Style) Flicker() Style {
	s.Ornament = reverseString(s.Ornament)
	return s
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
