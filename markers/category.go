package markers

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// The category uncategorised markers are filtered under.
const CATEGORY_OTHER = "other"

type Category struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Image        string `json:"image" yaml:"image"`
	DefaultColor string `json:"defaultColor" yaml:"defaultColor"`
}

type CategoryTable []Category

var DEFAULT_CATEGORIES = CategoryTable{
	{ID: "base", Name: "Base", Image: "categoryimages/house.png", DefaultColor: "#ffffff"},
	{ID: "ressources", Name: "Ressources", Image: "categoryimages/pickaxe.png", DefaultColor: "#4a9eff"},
	{ID: "village", Name: "Village", Image: "categoryimages/village.png", DefaultColor: "#4caf50"},
	{ID: "spawner", Name: "Spawner", Image: "categoryimages/zombie.png", DefaultColor: "#f44336"},
	{ID: "portal", Name: "Portal", Image: "categoryimages/portal.png", DefaultColor: "#00bcd4"},
	{ID: "mineshaft", Name: "Mineshaft", Image: "categoryimages/mineshaft.png", DefaultColor: "#9c27b0"},
	{ID: "ancientcity", Name: "Ancient City", Image: "categoryimages/ancientcity.png", DefaultColor: "#5c6bc0"},
	{ID: "deserttemple", Name: "Desert Temple", Image: "categoryimages/deserttemple.png", DefaultColor: "#ff9800"},
	{ID: "igloo", Name: "Igloo", Image: "categoryimages/igloo.png", DefaultColor: "#00bcd4"},
	{ID: "mansion", Name: "Mansion", Image: "categoryimages/mansion.png", DefaultColor: "#795548"},
	{ID: "junglepyramid", Name: "Jungle Pyramid", Image: "categoryimages/junglepyramid.png", DefaultColor: "#8bc34a"},
	{ID: "oceantemple", Name: "Ocean Temple", Image: "categoryimages/oceantemple.png", DefaultColor: "#2196f3"},
	{ID: "trialchamber", Name: "Trial Chamber", Image: "categoryimages/trialchamber.png", DefaultColor: "#ff5722"},
	{ID: "pillager", Name: "Pillager", Image: "categoryimages/pillager.png", DefaultColor: "#d32f2f"},
	{ID: CATEGORY_OTHER, Name: "Other", Image: "categoryimages/pin.png", DefaultColor: "#cccccc"},
}

func (t CategoryTable) Get(id string) (Category, bool) {
	return lo.Find(t, func(c Category) bool {
		return c.ID == id
	})
}

func (t CategoryTable) IDs() []string {
	return lo.Map(t, func(c Category, _ int) string {
		return c.ID
	})
}

// Reads a category table from a YAML file containing a list of categories.
//
// Ids must be non-empty and unique. If the file does not define the "other" category,
// the built-in one is appended so uncategorised markers always have a filter entry.
func LoadCategories(path string) (CategoryTable, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var table CategoryTable
	if err := yaml.Unmarshal(contents, &table); err != nil {
		return nil, fmt.Errorf("invalid category table in %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(table))
	for i, c := range table {
		if c.ID == "" {
			return nil, fmt.Errorf("invalid category table in %s: entry %d has no id", path, i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("invalid category table in %s: duplicate id '%s'", path, c.ID)
		}

		seen[c.ID] = struct{}{}
	}

	if _, ok := seen[CATEGORY_OTHER]; !ok {
		other, _ := DEFAULT_CATEGORIES.Get(CATEGORY_OTHER)
		table = append(table, other)
	}

	return table, nil
}
