package compose

// KeyKind classifies composer input.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyPaste
)

// Key is one keystroke or paste delivered to a Composer.
type Key struct {
	Kind KeyKind
	Rune rune
	Text string
}

var (
	BackspaceKey = Key{Kind: KeyBackspace}
	EnterKey     = Key{Kind: KeyEnter}
	EscapeKey    = Key{Kind: KeyEscape}
)

// RuneKey is a single typed character.
func RuneKey(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

// PasteKey is pasted text.
func PasteKey(text string) Key {
	return Key{Kind: KeyPaste, Text: text}
}

// TypeString converts text into one RuneKey per character.
func TypeString(text string) []Key {
	keys := make([]Key, 0, len(text))
	for _, r := range text {
		keys = append(keys, RuneKey(r))
	}
	return keys
}
