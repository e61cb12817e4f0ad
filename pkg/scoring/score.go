package scoring

import "github.com/planscope/planscope/pkg/model"

// Score sums weight*duration over the plan steps. Keys missing from the
// weight maps use the OtherKey entry and then 0. Steps with an unknown
// duration contribute nothing.
func Score(plan *model.Plan, weights WeightConfig) float64 {
	if plan == nil {
		return 0
	}

	score := 0.0
	for _, step := range plan.Steps {
		if step == nil || step.DurationSec == nil {
			continue
		}

		var table map[string]float64
		switch step.Kind {
		case model.StepKindActivity:
			table = weights.Act
		case model.StepKindLeg:
			table = weights.Leg
		default:
			continue
		}

		score += lookup(table, step.Key()) * float64(*step.DurationSec)
	}

	return score
}

func lookup(table map[string]float64, key string) float64 {
	if weight, ok := table[key]; ok {
		return weight
	}
	if weight, ok := table[OtherKey]; ok {
		return weight
	}
	return 0
}

// ScorePerson scores every plan of a person in plan order
func ScorePerson(person *model.Person, weights WeightConfig) []float64 {
	scores := make([]float64, len(person.Plans))
	for i, plan := range person.Plans {
		scores[i] = Score(plan, weights)
	}
	return scores
}

// BestPlanIndex is the index of the highest scoring plan, -1 without plans
func BestPlanIndex(person *model.Person, weights WeightConfig) int {
	best := -1
	bestScore := 0.0
	for i, score := range ScorePerson(person, weights) {
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}
