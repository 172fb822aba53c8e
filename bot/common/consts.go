package common

import (
	"fmt"
	"strings"

	"mapmarkers/markers"
)

// Marker buttons shown per list page. 4 rows of 5, the last row is left for page navigation.
const MARKERS_PER_PAGE = 20

// Discord rejects button labels longer than this.
const MAX_BUTTON_LABEL = 80

// The first segment of every custom id owned by the marker command. Equal to the command name
// so components and modals can be routed back to it.
const CUSTOM_ID_PREFIX = "marker"

type Action = string

var ACTIONS = struct {
	SELECT Action // Pressing a marker button, the "click" on the map.
	TOGGLE Action
	EDIT   Action // Opens the edit modal.
	SUBMIT Action // Submits the edit modal.
	DELETE Action
	PAGE   Action
}{
	SELECT: "select",
	TOGGLE: "toggle",
	EDIT:   "edit",
	SUBMIT: "submit",
	DELETE: "delete",
	PAGE:   "page",
}

type Emoji = string

var EMOJIS = struct {
	CHECKED   Emoji
	UNCHECKED Emoji
	PIN       Emoji
}{
	CHECKED:   "☑️",
	UNCHECKED: "⬜",
	PIN:       "📍",
}

// Identifies what a component or modal acts on.
//
// Encoded as "marker:<action>:<dimension>:<arg>". Arg is a marker id for marker actions
// and "<nav>.<page>" for page navigation.
type CustomID struct {
	Action    Action
	Dimension markers.Dimension
	Arg       string
}

func (c CustomID) String() string {
	return strings.Join([]string{CUSTOM_ID_PREFIX, c.Action, c.Dimension, c.Arg}, ":")
}

func MarkerCustomID(action Action, dim markers.Dimension, id string) string {
	return CustomID{Action: action, Dimension: dim, Arg: id}.String()
}

func PageCustomID(dim markers.Dimension, nav string, page int) string {
	return CustomID{Action: ACTIONS.PAGE, Dimension: dim, Arg: fmt.Sprintf("%s.%d", nav, page)}.String()
}

func ParseCustomID(raw string) (CustomID, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) != 4 || parts[0] != CUSTOM_ID_PREFIX {
		return CustomID{}, fmt.Errorf("not a marker custom id: %q", raw)
	}

	id := CustomID{Action: parts[1], Dimension: parts[2], Arg: parts[3]}
	if !markers.IsKnownDimension(id.Dimension) {
		return CustomID{}, fmt.Errorf("unknown dimension in custom id: %q", raw)
	}

	return id, nil
}

// The target page of a page navigation custom id.
func (c CustomID) Page() (int, error) {
	_, page, ok := strings.Cut(c.Arg, ".")
	if c.Action != ACTIONS.PAGE || !ok {
		return 0, fmt.Errorf("not a page custom id: %q", c.String())
	}

	var n int
	if _, err := fmt.Sscanf(page, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid page in custom id %q: %w", c.String(), err)
	}

	return n, nil
}
