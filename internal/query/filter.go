package query

import (
	"strconv"
	"strings"
)

// RecipeFilter narrows a recipe listing to recipes whose tag set or
// ingredient set intersects the given ids. When both are present a recipe
// must match both to be included.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// ParseRecipeFilter builds a RecipeFilter from the raw tags and ingredients
// query parameters.
func ParseRecipeFilter(tags, ingredients string) RecipeFilter {
	return RecipeFilter{
		TagIDs:        ParseIDList(tags),
		IngredientIDs: ParseIDList(ingredients),
	}
}

// ParseIDList parses a comma separated id list ("1, 2,7") into a
// deduplicated id slice. Surrounding whitespace is tolerated and malformed
// tokens are skipped, so a sloppy client degrades to a narrower filter
// instead of an error.
func ParseIDList(s string) []uint {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seen := make(map[uint]struct{})
	var ids []uint
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			continue
		}
		if _, dup := seen[uint(id)]; dup {
			continue
		}
		seen[uint(id)] = struct{}{}
		ids = append(ids, uint(id))
	}
	return ids
}
