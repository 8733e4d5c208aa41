package fonts

// Origin names the chain step a face came from.
type Origin string

const (
	OriginEmbedded Origin = "embedded"
	OriginFile     Origin = "file"
	OriginRemote   Origin = "remote"
	OriginBuiltin  Origin = "builtin"
)

const (
	// KoreanFamily is the family name under which resolved Korean fonts are registered.
	KoreanFamily = "NotoSansKR"
	// BuiltinFamily is the core PDF font used when no Korean font could be loaded.
	BuiltinFamily = "Helvetica"
)

// Face is the font chosen for one export batch. Data is nil for the built-in face.
type Face struct {
	Family string
	Data   []byte
	Origin Origin
}

// Builtin returns the last-resort face.
func Builtin() *Face {
	return &Face{Family: BuiltinFamily, Origin: OriginBuiltin}
}

// Localized reports whether the face can draw Hangul.
func (f *Face) Localized() bool {
	return f != nil && len(f.Data) > 0
}

// Text prepares s for drawing with this face. Korean faces draw it unchanged;
// the built-in face gets an English transliteration of any Hangul.
func (f *Face) Text(s string) string {
	if f.Localized() || !ContainsHangul(s) {
		return s
	}
	return Transliterate(s)
}
