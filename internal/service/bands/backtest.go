package bands

import "sigmaband/internal/domain/models"

// Aggregate scores a trailing window of observations. Percentages are
// count/len*100; an empty window returns zeros rather than dividing.
func Aggregate(window []models.Observation) models.Performance {
	p := models.Performance{Days: len(window)}
	for _, o := range window {
		switch {
		case o.Within1:
			p.Within1++
		case o.Outside1:
			p.Outside1++
		default:
			p.Outside2++
		}
	}
	if p.Days == 0 {
		return p
	}
	total := float64(p.Days)
	p.PctWithin1 = float64(p.Within1) / total * 100
	p.PctOutside1 = float64(p.Outside1) / total * 100
	p.PctOutside2 = float64(p.Outside2) / total * 100
	return p
}

// Tail returns the last n observations, or all of them when n exceeds the
// sequence length.
func Tail(obs []models.Observation, n int) []models.Observation {
	if n >= len(obs) {
		return obs
	}
	return obs[len(obs)-n:]
}
