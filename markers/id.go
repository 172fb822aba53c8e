package markers

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mapmarkers/utils/sets"

	"github.com/google/uuid"
)

const ID_PREFIX = "marker-"
const ID_SUFFIX_LEN = 9

var nowFunc = time.Now // Overridden in tests.

// Generates a marker id in the form "marker-<unix ms>-<9 base36 chars>".
func NewID(now time.Time) string {
	u := uuid.New()
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(u[:8]), 36)
	if len(suffix) < ID_SUFFIX_LEN {
		suffix = strings.Repeat("0", ID_SUFFIX_LEN-len(suffix)) + suffix
	}

	return fmt.Sprintf("%s%d-%s", ID_PREFIX, now.UnixMilli(), suffix[:ID_SUFFIX_LEN])
}

// Like NewID, but keeps generating until the id is not already taken.
func NewUniqueID(now time.Time, taken sets.Set[string]) string {
	for {
		if id := NewID(now); !taken.Has(id) {
			return id
		}
	}
}
