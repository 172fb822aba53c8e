package markers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"mapmarkers/utils/sets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerKeepsUnknownKeys(t *testing.T) {
	in := `{"id":"marker-1-abc","x":10,"z":-4,"text":"Home","category":"base","textColor":"#ffffff","owner":"steve","offsetX":0,"offsetY":20}`

	var m Marker
	require.NoError(t, json.Unmarshal([]byte(in), &m))
	assert.Equal(t, "base", m.CategoryID())
	assert.Contains(t, m.Extra, "owner")

	out, err := json.Marshal(m)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "steve", back["owner"])
	assert.Equal(t, "marker-1-abc", back["id"])
}

func TestMarkerRoundsFractionalCoordinates(t *testing.T) {
	var m Marker
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","x":10.6,"z":-3.2,"text":"t","category":null}`), &m))

	assert.Equal(t, 11, m.X)
	assert.Equal(t, -3, m.Z)
	assert.Nil(t, m.Category)
	assert.Nil(t, m.Extra)
}

func TestMarkerCloneIsDeep(t *testing.T) {
	m := Marker{ID: "a", Category: StringPtr("base"), Checked: BoolPtr(true), ImageAnchor: []float64{0.5, 1}}
	cpy := m.Clone()

	*cpy.Category = "village"
	*cpy.Checked = false
	cpy.ImageAnchor[0] = 0

	assert.Equal(t, "base", m.CategoryID())
	assert.True(t, m.IsChecked())
	assert.Equal(t, 0.5, m.ImageAnchor[0])
}

func TestDecodeDocument(t *testing.T) {
	doc := DecodeDocument([]byte(`{"overworld":[{"id":"a","x":1,"z":2,"text":"A"}],"nether":"oops"}`))

	require.Len(t, doc[OVERWORLD], 1)
	assert.NotNil(t, doc[NETHER], "malformed dimension should degrade to empty")
	assert.Empty(t, doc[NETHER])
	assert.NotNil(t, doc[END], "absent dimension should be present and empty")
}

func TestDecodeDocumentMalformed(t *testing.T) {
	for _, raw := range []string{``, `null`, `[1,2,3]`, `"nope"`} {
		doc := DecodeDocument([]byte(raw))
		assert.Equal(t, NewDocument(), doc, "input %q", raw)
	}
}

func TestDocumentNormalizeEncodesEmptyLists(t *testing.T) {
	doc := Document{OVERWORLD: nil}.Normalize()

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"overworld":[],"nether":[],"end":[]}`, string(out))
}

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := NewID(now)

	assert.Regexp(t, regexp.MustCompile(`^marker-1700000000000-[0-9a-z]{9}$`), id)
	assert.NotEqual(t, id, NewID(now))
}

func TestNewUniqueIDSkipsTaken(t *testing.T) {
	now := time.UnixMilli(1)
	taken := sets.New[string]()
	for range 50 {
		id := NewUniqueID(now, taken)
		require.False(t, taken.Has(id))
		taken.Append(id)
	}
}

func TestBuildNewMarker(t *testing.T) {
	m, err := Build(Input{X: 10.4, Z: -20.6, Text: "  <b>Home</b> "}, DEFAULT_CATEGORIES, nil)
	require.NoError(t, err)

	assert.True(t, regexp.MustCompile(`^marker-\d+-[0-9a-z]{9}$`).MatchString(m.ID))
	assert.Equal(t, 10, m.X)
	assert.Equal(t, -21, m.Z)
	assert.Equal(t, "bHome/b", m.Text)
	assert.Nil(t, m.Category)
	assert.Equal(t, DEFAULT_TEXT_COLOR, m.TextColor)
	require.NotNil(t, m.Image)
	assert.Equal(t, DEFAULT_PIN_IMAGE, *m.Image)
	assert.False(t, m.IsChecked())
	assert.Equal(t, []float64{0.5, 1}, m.ImageAnchor)
	assert.Equal(t, DEFAULT_OFFSET_Y, m.OffsetY)
}

func TestBuildCategoryDefaults(t *testing.T) {
	m, err := Build(Input{Text: "Zombies", Category: "spawner"}, DEFAULT_CATEGORIES, nil)
	require.NoError(t, err)

	assert.Equal(t, "spawner", m.CategoryID())
	assert.Equal(t, "#f44336", m.TextColor)
	assert.Nil(t, m.Image)
}

func TestBuildValidation(t *testing.T) {
	long := ""
	for range MAX_LABEL_LENGTH + 1 {
		long += "a"
	}

	cases := []struct {
		name string
		in   Input
		want error
	}{
		{"empty label", Input{Text: "   "}, ErrEmptyLabel},
		{"label too long", Input{Text: long}, ErrLabelTooLong},
		{"bad color", Input{Text: "a", TextColor: "red"}, ErrInvalidColor},
		{"unknown category", Input{Text: "a", Category: "castle"}, ErrUnknownCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.in, DEFAULT_CATEGORIES, nil)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildEditKeepsIdentityAndFlag(t *testing.T) {
	existing := Marker{
		ID:        "marker-1-aaaaaaaaa",
		Text:      "Old",
		TextColor: "#123456",
		Checked:   BoolPtr(true),
		Extra:     map[string]json.RawMessage{"owner": json.RawMessage(`"alex"`)},
	}

	m, err := Build(Input{Text: "New"}, DEFAULT_CATEGORIES, &existing)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, m.ID)
	assert.True(t, m.IsChecked())
	assert.Equal(t, "#123456", m.TextColor)
	assert.Contains(t, m.Extra, "owner")

	m, err = Build(Input{Text: "New", Checked: BoolPtr(false)}, DEFAULT_CATEGORIES, &existing)
	require.NoError(t, err)
	assert.False(t, m.IsChecked())
	assert.True(t, existing.IsChecked(), "existing marker must not be mutated")
}

func TestInputFromStripsLegacyPrefix(t *testing.T) {
	m := Marker{Text: "🏠 Home", Category: StringPtr("base"), TextColor: "#ffffff", X: 3, Z: 4}
	in := InputFrom(m, DEFAULT_CATEGORIES)

	assert.Equal(t, "Home", in.Text)
	assert.Equal(t, "base", in.Category)
	assert.Equal(t, 3.0, in.X)

	// Without a category the label is left alone.
	m.Category = nil
	assert.Equal(t, "🏠 Home", InputFrom(m, DEFAULT_CATEGORIES).Text)
}

func TestLoadCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	yml := `
- id: base
  name: Base
  image: categoryimages/house.png
  defaultColor: "#ffffff"
- id: farm
  name: Farm
  image: categoryimages/farm.png
  defaultColor: "#00ff00"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	table, err := LoadCategories(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "farm", CATEGORY_OTHER}, table.IDs())

	farm, ok := table.Get("farm")
	require.True(t, ok)
	assert.Equal(t, "#00ff00", farm.DefaultColor)
}

func TestLoadCategoriesRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: a\n- id: a\n"), 0o644))

	_, err := LoadCategories(path)
	assert.ErrorContains(t, err, "duplicate id")
}
