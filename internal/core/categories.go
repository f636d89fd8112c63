package core

import "sort"

// Command categories, as shown in /help and the README.
const (
	CategoryEconomy     = "💰 Economy"
	CategoryInformation = "🕯️ Information"
	CategoryMaintenance = "🛠️ Maintenance"
)

// CategoryWeights orders categories, lower first. Unknown ones sort last.
var CategoryWeights = map[string]int{
	CategoryEconomy:     10,
	CategoryInformation: 20,
	CategoryMaintenance: 30,
}

// GroupByCategory buckets commands by category and returns the categories in
// display order. Commands keep their input order within a category.
func GroupByCategory(cmds []Command) ([]string, map[string][]Command) {
	byCat := make(map[string][]Command)
	for _, cmd := range cmds {
		byCat[cmd.Category()] = append(byCat[cmd.Category()], cmd)
	}

	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := categoryWeight(cats[i]), categoryWeight(cats[j])
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})
	return cats, byCat
}

func categoryWeight(cat string) int {
	if w, ok := CategoryWeights[cat]; ok {
		return w
	}
	return 1 << 10
}
