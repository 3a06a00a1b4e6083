package input

import "unicode"

// Buffer holds the line being edited as runes plus a cursor index.
type Buffer struct {
	runes []rune
	pos   int
}

func NewBuffer() *Buffer {
	return &Buffer{runes: []rune{}}
}

func NewBufferWithText(text string) *Buffer {
	b := NewBuffer()
	b.SetText(text)
	return b
}

func (b *Buffer) Text() string {
	return string(b.runes)
}

func (b *Buffer) Len() int {
	return len(b.runes)
}

func (b *Buffer) Pos() int {
	return b.pos
}

// SetText replaces the content and moves the cursor to the end.
func (b *Buffer) SetText(text string) {
	b.runes = []rune(text)
	b.pos = len(b.runes)
}

func (b *Buffer) Clear() {
	b.runes = []rune{}
	b.pos = 0
}

// SetPos moves the cursor, clamped to [0, Len()].
func (b *Buffer) SetPos(pos int) {
	b.pos = max(0, min(pos, len(b.runes)))
}

func (b *Buffer) InsertRunes(runes []rune) {
	if len(runes) == 0 {
		return
	}
	tail := append([]rune(nil), b.runes[b.pos:]...)
	b.runes = append(append(b.runes[:b.pos], runes...), tail...)
	b.pos += len(runes)
}

func (b *Buffer) Insert(text string) {
	b.InsertRunes([]rune(text))
}

// DeleteBackward removes the rune before the cursor.
func (b *Buffer) DeleteBackward() bool {
	if b.pos == 0 {
		return false
	}
	b.runes = append(b.runes[:b.pos-1], b.runes[b.pos:]...)
	b.pos--
	return true
}

// DeleteForward removes the rune under the cursor.
func (b *Buffer) DeleteForward() bool {
	if b.pos >= len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.pos], b.runes[b.pos+1:]...)
	return true
}

// DeleteWordBackward removes the word left of the cursor, like Ctrl+W.
func (b *Buffer) DeleteWordBackward() {
	end := b.pos
	b.WordBackward()
	b.runes = append(b.runes[:b.pos], b.runes[end:]...)
}

// KillToEnd removes everything after the cursor.
func (b *Buffer) KillToEnd() {
	b.runes = b.runes[:b.pos]
}

// KillToStart removes everything before the cursor.
func (b *Buffer) KillToStart() {
	b.runes = append([]rune(nil), b.runes[b.pos:]...)
	b.pos = 0
}

// WordBackward moves to the start of the previous word. Words are runs of
// letters, digits and underscores, so `add.Delay(` stops at `Delay`.
func (b *Buffer) WordBackward() {
	i := b.pos
	for i > 0 && !isWordRune(b.runes[i-1]) {
		i--
	}
	for i > 0 && isWordRune(b.runes[i-1]) {
		i--
	}
	b.pos = i
}

func (b *Buffer) WordForward() {
	i := b.pos
	for i < len(b.runes) && !isWordRune(b.runes[i]) {
		i++
	}
	for i < len(b.runes) && isWordRune(b.runes[i]) {
		i++
	}
	b.pos = i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
