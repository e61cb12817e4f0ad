package model

type Plan struct {
	Selected    bool     `json:"selected" bson:"selected" groups:"summary,detailed"`
	MatsimScore *float64 `json:"matsimScore" bson:"matsimscore" groups:"summary,detailed"`
	ServerScore *float64 `json:"serverScore" bson:"serverscore" groups:"summary,detailed"`

	Steps []*Step `json:"steps" bson:"steps" groups:"detailed"`
}

func (p *Plan) Activities() []*Step {
	var activities []*Step
	for _, step := range p.Steps {
		if step.IsActivity() {
			activities = append(activities, step)
		}
	}
	return activities
}

func (p *Plan) Legs() []*Step {
	var legs []*Step
	for _, step := range p.Steps {
		if step.IsLeg() {
			legs = append(legs, step)
		}
	}
	return legs
}

type Person struct {
	PersonID          string  `json:"personId" bson:"personid" groups:"summary,detailed"`
	Plans             []*Plan `json:"plans" bson:"plans" groups:"summary,detailed"`
	SelectedPlanIndex *int    `json:"selectedPlanIndex" bson:"selectedplanindex" groups:"summary,detailed"`
}

// DefaultPlanIndex is the simulator selected plan, or 0 when none is marked
func (p *Person) DefaultPlanIndex() int {
	if p.SelectedPlanIndex != nil && *p.SelectedPlanIndex >= 0 && *p.SelectedPlanIndex < len(p.Plans) {
		return *p.SelectedPlanIndex
	}
	return 0
}

// Plan returns the plan at index or nil when out of range
func (p *Person) Plan(index int) *Plan {
	if index < 0 || index >= len(p.Plans) {
		return nil
	}
	return p.Plans[index]
}
