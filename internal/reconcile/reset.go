package reconcile

import "github.com/mestredagrelha/grelha/internal/models"

// SoftReset closes the accounting period: sold and consumed go to zero,
// stock is kept.
func SoftReset(reg models.Registry) models.Registry {
	out := reg.Clone()
	for i := range out {
		out[i].Sold = 0
		out[i].Consumed = 0
	}
	return out
}

// HardReset restarts the physical count from scratch. The result is the
// catalog with every counter at zero; items added later are dropped.
func HardReset(catalog models.Registry) models.Registry {
	out := make(models.Registry, len(catalog))
	for i, it := range catalog {
		out[i] = models.Item{ID: it.ID, Name: it.Name}
	}
	return out
}
