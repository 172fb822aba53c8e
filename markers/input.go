package markers

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const MAX_LABEL_LENGTH = 50

const (
	DEFAULT_TEXT_COLOR      = "#cccccc"
	DEFAULT_FONT            = "500 18px 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif"
	DEFAULT_TEXT_BACKGROUND = "rgba(0, 0, 0, 0.65)"
	DEFAULT_PIN_IMAGE       = "custom.pin.png"
	DEFAULT_IMAGE_SCALE     = 0.1 // 320x320 source images shown at 32x32.
	DEFAULT_OFFSET_Y        = 20
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Labels written by old clients were prefixed with one of these before category icons existed.
var legacyPrefixes = []string{"🏠", "⚔️", "🏛️", "💎", "⚠️", "🌀", "🌾", "📍", "🏪", "📌"}

// What a user enters when creating or editing a marker.
type Input struct {
	X, Z      float64
	Text      string
	Category  string // Empty for none.
	TextColor string // Empty to use the category default.
	Checked   *bool  // nil keeps the current flag when editing.
}

// Pre-fills an input from an existing marker, the same way the edit form would.
func InputFrom(m Marker, categories CategoryTable) Input {
	text := m.Text
	if _, ok := categories.Get(m.CategoryID()); ok {
		text = StripLegacyPrefix(text)
	}

	return Input{
		X:         float64(m.X),
		Z:         float64(m.Z),
		Text:      text,
		Category:  m.CategoryID(),
		TextColor: m.TextColor,
	}
}

// Removes a leading legacy emoji from a label, if it has one.
func StripLegacyPrefix(text string) string {
	for _, prefix := range legacyPrefixes {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix))
		}
	}

	return text
}

// Removes angle brackets so labels can never carry markup.
func SanitizeText(text string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(text)
}

// Validates an input and turns it into a complete marker.
//
// When existing is nil a new id is generated, otherwise the existing id and any unmodelled
// keys are kept and the checked flag only changes if the input sets it.
func Build(in Input, categories CategoryTable, existing *Marker) (Marker, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Marker{}, ErrEmptyLabel
	}
	if utf8.RuneCountInString(text) > MAX_LABEL_LENGTH {
		return Marker{}, ErrLabelTooLong
	}

	var category *Category
	if in.Category != "" {
		c, ok := categories.Get(in.Category)
		if !ok {
			return Marker{}, ErrUnknownCategory
		}

		category = &c
	}

	color := in.TextColor
	switch {
	case color != "":
		if !hexColorRegex.MatchString(color) {
			return Marker{}, ErrInvalidColor
		}
	case existing != nil && existing.CategoryID() == in.Category && existing.TextColor != "":
		color = existing.TextColor
	case category != nil && category.DefaultColor != "":
		color = category.DefaultColor
	default:
		color = DEFAULT_TEXT_COLOR
	}

	m := Marker{
		X:                   int(math.Round(in.X)),
		Z:                   int(math.Round(in.Z)),
		Text:                SanitizeText(text),
		TextColor:           color,
		Font:                DEFAULT_FONT,
		TextBackgroundColor: DEFAULT_TEXT_BACKGROUND,
		ImageScale:          DEFAULT_IMAGE_SCALE,
		ImageAnchor:         []float64{0.5, 1},
		OffsetY:             DEFAULT_OFFSET_Y,
	}

	// The category icon replaces the pin, so only uncategorised markers get an image.
	if category != nil {
		m.Category = StringPtr(category.ID)
	} else {
		m.Image = StringPtr(DEFAULT_PIN_IMAGE)
	}

	if existing != nil {
		m.ID = existing.ID
		m.Checked = existing.Clone().Checked
		m.Extra = existing.Clone().Extra
	} else {
		m.ID = NewID(nowFunc())
		m.Checked = BoolPtr(false)
	}

	if in.Checked != nil {
		m.Checked = BoolPtr(*in.Checked)
	}

	return m, nil
}
