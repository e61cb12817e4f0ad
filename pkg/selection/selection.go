package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/util"
)

var ErrPlanIndexOutOfRange = errors.New("plan index out of range")

// Filter keeps persons whose id contains predicate, ignoring case. The
// input slice is never modified.
func Filter(persons []*model.Person, predicate string) []*model.Person {
	filtered := make([]*model.Person, len(persons))
	copy(filtered, persons)

	needle := strings.ToLower(strings.TrimSpace(predicate))
	if needle == "" {
		return filtered
	}

	util.InPlaceFilter(&filtered, func(person *model.Person) bool {
		return person != nil && strings.Contains(strings.ToLower(person.PersonID), needle)
	})

	return filtered
}

// Index is the working view over a person collection: the current filter
// and the plan chosen per person. The chosen plan is caller state and never
// touches Plan.Selected.
type Index struct {
	persons   []*model.Person
	predicate string
	visible   []*model.Person
	chosen    map[string]int
}

func NewIndex(persons []*model.Person) *Index {
	index := &Index{
		persons: persons,
		chosen:  map[string]int{},
	}
	index.visible = Filter(persons, "")

	return index
}

func (i *Index) SetPredicate(predicate string) []*model.Person {
	i.predicate = predicate
	i.visible = Filter(i.persons, predicate)
	return i.visible
}

func (i *Index) Predicate() string {
	return i.predicate
}

func (i *Index) Visible() []*model.Person {
	return i.visible
}

func (i *Index) All() []*model.Person {
	return i.persons
}

// ChosenPlanIndex defaults to the simulator selected plan, then 0
func (i *Index) ChosenPlanIndex(person *model.Person) int {
	if chosen, ok := i.chosen[person.PersonID]; ok {
		return chosen
	}
	return person.DefaultPlanIndex()
}

func (i *Index) ChosenPlan(person *model.Person) *model.Plan {
	return person.Plan(i.ChosenPlanIndex(person))
}

func (i *Index) Choose(person *model.Person, planIndex int) error {
	if planIndex < 0 || planIndex >= len(person.Plans) {
		return fmt.Errorf("%w: %d for person %s with %d plans", ErrPlanIndexOutOfRange, planIndex, person.PersonID, len(person.Plans))
	}

	i.chosen[person.PersonID] = planIndex
	return nil
}

// Reset drops the chosen plan of person, or of everyone when person is nil
func (i *Index) Reset(person *model.Person) {
	if person == nil {
		i.chosen = map[string]int{}
		return
	}
	delete(i.chosen, person.PersonID)
}

// Lookup finds a person by exact id among all persons
func (i *Index) Lookup(personID string) *model.Person {
	for _, person := range i.persons {
		if person != nil && person.PersonID == personID {
			return person
		}
	}
	return nil
}
