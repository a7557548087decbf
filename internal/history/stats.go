package history

import "github.com/angeloszaimis/site-monitor/internal/models"

// Stats counts the current working set by category and priority. manual and
// external are the two halves of the working set, in merge order.
func Stats(manual, external []models.Site) models.SiteStats {
	stats := models.SiteStats{
		Total:  len(manual) + len(external),
		Manual: len(manual),
		WHM:    len(external),
	}

	for _, list := range [][]models.Site{manual, external} {
		for _, site := range list {
			countCategory(&stats.ByCategory, site.Category)
			countPriority(&stats.ByPriority, site.Priority)
		}
	}

	return stats
}

func countCategory(c *models.CategoryCounts, category models.Category) {
	switch category {
	case models.CategoryExternal:
		c.External++
	case models.CategoryWHM:
		c.WHM++
	case models.CategoryAPI:
		c.API++
	case models.CategoryCDN:
		c.CDN++
	case models.CategoryManual:
		c.Manual++
	default:
		c.Other++
	}
}

func countPriority(c *models.PriorityCounts, priority models.Priority) {
	switch priority {
	case models.PriorityCritical:
		c.Critical++
	case models.PriorityHigh:
		c.High++
	case models.PriorityNormal:
		c.Normal++
	case models.PriorityLow:
		c.Low++
	default:
		c.Other++
	}
}
