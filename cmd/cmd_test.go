package cmd

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"mapmarkers/markers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdRegex = regexp.MustCompile(`Created (marker-\S+)`)

func setupCLI(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MARKERS_BACKEND", "file")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("CATEGORIES_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	err := Run(context.Background(), args, &out, &out)
	require.NoError(t, err, out.String())

	return out.String()
}

func runCLIErr(t *testing.T, args ...string) error {
	t.Helper()

	var out bytes.Buffer
	err := Run(context.Background(), args, &out, &out)
	require.Error(t, err)

	return err
}

func addMarker(t *testing.T, args ...string) string {
	t.Helper()

	out := runCLI(t, append([]string{"add"}, args...)...)
	assert.Contains(t, out, "Marker added successfully")

	match := createdRegex.FindStringSubmatch(out)
	require.Len(t, match, 2, out)

	return match[1]
}

func TestMarkerLifecycle(t *testing.T) {
	setupCLI(t)

	home := addMarker(t, "Home", "--x", "10", "--z", "20", "--category", "base")
	farm := addMarker(t, "Farm", "--x", "300", "--z", "300")

	out := runCLI(t, "list")
	assert.Contains(t, out, "Overworld markers")
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "Farm")
	assert.Contains(t, out, "2 of 2 markers shown")

	out = runCLI(t, "toggle", home)
	assert.Contains(t, out, "Marker marked as completed")

	out = runCLI(t, "edit", farm, "--label", "Big farm")
	assert.Contains(t, out, "Marker updated successfully")
	assert.Contains(t, runCLI(t, "list"), "Big farm")

	out = runCLI(t, "delete", farm)
	assert.Contains(t, out, "Marker deleted")
	assert.Contains(t, runCLI(t, "list"), "1 of 1 markers shown")

	out = runCLI(t, "dump")
	assert.Contains(t, out, home)
	assert.Contains(t, out, "Home")

	// Other dimensions are separate.
	assert.Contains(t, runCLI(t, "list", "--dimension", markers.NETHER), "No markers to show")
}

func TestFilterCommands(t *testing.T) {
	setupCLI(t)

	home := addMarker(t, "Home", "--x", "10", "--z", "20", "--category", "base")
	addMarker(t, "Somewhere", "--x", "500", "--z", "500")

	runCLI(t, "filter", "set", "base=false")
	assert.Contains(t, runCLI(t, "list"), "1 of 2 markers shown")
	assert.Regexp(t, `base\s+Base\s+hidden`, runCLI(t, "filter", "show"))

	out := runCLI(t, "at", "12", "18")
	assert.Contains(t, out, "mapmarkers add <label> --x 12 --z 18")
	assert.Contains(t, out, home+", hidden by the filter")

	runCLI(t, "filter", "hide-all")
	assert.Contains(t, runCLI(t, "list"), "0 of 2 markers shown")

	runCLI(t, "filter", "reset")
	assert.Contains(t, runCLI(t, "list"), "2 of 2 markers shown")

	// The nether filter was never touched.
	runCLI(t, "filter", "hide-all", "--dimension", markers.NETHER)
	assert.Contains(t, runCLI(t, "list"), "2 of 2 markers shown")

	assert.Error(t, runCLIErr(t, "filter", "set", "nope=true"))
	assert.Error(t, runCLIErr(t, "filter", "set", "base"))
}

func TestAtDrawnMarker(t *testing.T) {
	setupCLI(t)

	id := addMarker(t, "Portal", "--x", "-100", "--z", "40", "--category", "portal")

	out := runCLI(t, "at", "--", "-90", "35")
	assert.Contains(t, out, "Portal (-100, 40) "+id)
	assert.Contains(t, out, "mapmarkers toggle "+id)
	assert.NotContains(t, out, "hidden by the filter")
}

func TestAtListsNearbyMarkers(t *testing.T) {
	setupCLI(t)

	far := addMarker(t, "Farm", "--x", "0", "--z", "0")
	near := addMarker(t, "Mine", "--x", "150", "--z", "0")
	addMarker(t, "Outpost", "--x", "5000", "--z", "0")

	out := runCLI(t, "at", "200", "0", "--radius", "300")
	assert.Contains(t, out, "Nearby markers:")
	assert.Contains(t, out, "Mine (150, 0) "+near+", 50 blocks away")
	assert.Contains(t, out, "Farm (0, 0) "+far+", 200 blocks away")
	assert.NotContains(t, out, "Outpost")
	assert.Less(t, strings.Index(out, "Mine (150, 0)"), strings.Index(out, "Farm (0, 0)"))

	assert.NotContains(t, runCLI(t, "at", "200", "0"), "Nearby markers:")
}

func TestCommandErrors(t *testing.T) {
	setupCLI(t)

	err := runCLIErr(t, "add", "   ", "--x", "1", "--z", "1")
	assert.ErrorIs(t, err, markers.ErrEmptyLabel)

	err = runCLIErr(t, "toggle", "missing")
	assert.ErrorIs(t, err, markers.ErrMarkerNotFound)

	err = runCLIErr(t, "edit", "missing", "--label", "x")
	assert.ErrorIs(t, err, markers.ErrMarkerNotFound)

	err = runCLIErr(t, "list", "--dimension", "aether")
	assert.ErrorContains(t, err, "unknown dimension")

	err = runCLIErr(t, "add", "Home", "--x", "1", "--z", "1", "--color", "red")
	assert.ErrorIs(t, err, markers.ErrInvalidColor)
}

func TestInvalidConfig(t *testing.T) {
	setupCLI(t)
	t.Setenv("MARKERS_BACKEND", "jsonbin")
	t.Setenv("JSONBIN_BIN_ID", "")
	t.Setenv("JSONBIN_API_KEY", "")
	t.Setenv("JSONBIN_ACCESS_KEY", "")

	err := runCLIErr(t, "list")
	assert.ErrorContains(t, err, "invalid config")
}

func TestCategories(t *testing.T) {
	setupCLI(t)

	out := runCLI(t, "categories")
	assert.Contains(t, out, "ancientcity")
	assert.Contains(t, out, "Trial Chamber")
}
