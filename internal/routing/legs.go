package routing

import "github.com/jusunglee/railmap-go/internal/models"

// AssembleRoute groups consecutive hops on the same line into legs.
// Transfers is the number of leg boundaries and Steps the number of hops.
func AssembleRoute(steps []Step) *models.Route {
	var legs []models.Leg
	var cur *models.Leg

	for _, step := range steps {
		if cur == nil || cur.LineID != step.LineID {
			if cur != nil {
				legs = append(legs, *cur)
			}
			cur = &models.Leg{LineID: step.LineID, Stations: []string{step.From, step.To}}
			continue
		}
		if cur.Stations[len(cur.Stations)-1] != step.To {
			cur.Stations = append(cur.Stations, step.To)
		}
	}
	if cur != nil {
		legs = append(legs, *cur)
	}

	transfers := 0
	if len(legs) > 0 {
		transfers = len(legs) - 1
	}

	return &models.Route{
		Transfers: transfers,
		Steps:     len(steps),
		Legs:      legs,
	}
}
