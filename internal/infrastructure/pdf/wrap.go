package pdf

import "strings"

// AddressWrapWidth is the number of characters an address line may hold in
// the receipt's party blocks.
const AddressWrapWidth = 43

// lineBreaks maps the control characters a backend address may carry onto
// the single space the wrapper breaks on.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// wrappedLine is one output line. broken is set when the line ends inside a
// word, so no space separates it from the next line.
type wrappedLine struct {
	text   string
	broken bool
}

// WrapText breaks text into lines of at most width runes. Lines break at a
// single space, which is consumed; any other spaces are kept, so joining the
// lines with one space rebuilds the text. A word longer than width is
// hard-split into width-sized chunks that join with no space, and its last
// chunk starts the next line. Newlines and tabs count as spaces. Empty input
// yields no lines.
func WrapText(text string, width int) []string {
	wrapped := wrapLines(text, width)
	if len(wrapped) == 0 {
		return nil
	}
	lines := make([]string, len(wrapped))
	for i, l := range wrapped {
		lines[i] = l.text
	}
	return lines
}

func wrapLines(text string, width int) []wrappedLine {
	if width <= 0 {
		width = AddressWrapWidth
	}
	if text == "" {
		return nil
	}

	var (
		lines   []wrappedLine
		cur     []rune
		started bool
	)
	place := func(w []rune) {
		for len(w) > width {
			lines = append(lines, wrappedLine{text: string(w[:width]), broken: true})
			w = w[width:]
		}
		cur = w
		started = true
	}

	for _, word := range strings.Split(lineBreaks.Replace(text), " ") {
		w := []rune(word)
		switch {
		case !started:
			place(w)
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, wrappedLine{text: string(cur)})
			place(w)
		}
	}
	if started {
		lines = append(lines, wrappedLine{text: string(cur)})
	}
	return lines
}
