package render

import "github.com/angeloszaimis/site-monitor/internal/models"

// Group is one section of the status page.
type Group struct {
	Key     string
	Title   string
	Results []models.CheckResult
}

var groupOrder = []struct {
	key   string
	title string
}{
	{"critical", "Critical"},
	{"high", "High Priority"},
	{"whm", "Panel Sites"},
	{"externo", "External"},
	{"normal", "Normal"},
}

// GroupResults sorts results into sections. Priority wins over category; a
// result lands in exactly one section. Empty sections are omitted and the
// results keep their cycle order inside each section.
func GroupResults(results []models.CheckResult) []Group {
	buckets := make(map[string][]models.CheckResult, len(groupOrder))
	for _, r := range results {
		key := groupKey(r.Site)
		buckets[key] = append(buckets[key], r)
	}

	groups := make([]Group, 0, len(groupOrder))
	for _, g := range groupOrder {
		if len(buckets[g.key]) == 0 {
			continue
		}
		groups = append(groups, Group{Key: g.key, Title: g.title, Results: buckets[g.key]})
	}
	return groups
}

func groupKey(site models.Site) string {
	switch {
	case site.Priority == models.PriorityCritical:
		return "critical"
	case site.Priority == models.PriorityHigh:
		return "high"
	case site.Category == models.CategoryWHM:
		return "whm"
	case site.Category == models.CategoryExternal:
		return "externo"
	default:
		return "normal"
	}
}
