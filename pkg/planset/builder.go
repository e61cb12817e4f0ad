package planset

import (
	"runtime"

	"github.com/jinzhu/copier"
	"github.com/paulmach/orb"
	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/normalizer"
	"github.com/planscope/planscope/pkg/scoring"
	"github.com/planscope/planscope/pkg/transforms"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// RawPlan is one candidate plan block as read from the source file
type RawPlan struct {
	Selected    bool
	Score       *float64
	ServerScore *float64
	Elements    []normalizer.RawElement
}

type RawPerson struct {
	PersonID string
	Plans    []RawPlan
}

type Options struct {
	// Limit keeps the first N distinct persons in input order, 0 keeps all
	Limit int

	// SelectedOnly reduces every person to its selected plan
	SelectedOnly bool

	// ServerWeights fills ServerScore for plans that carry none
	ServerWeights *scoring.WeightConfig

	Facilities map[string]orb.Point
	Transforms transforms.Set

	// Workers bounds the parallel build, 0 uses GOMAXPROCS
	Workers int
}

type Builder struct {
	Options Options
}

func NewBuilder(options Options) *Builder {
	return &Builder{Options: options}
}

// Build turns raw person blocks into persons. Repeated person ids are merged
// into their first occurrence and persons without any plan are dropped.
// Output order always follows input order.
func (b *Builder) Build(raw []RawPerson) []*model.Person {
	merged := Deduplicate(raw, b.Options.Limit)

	workers := b.Options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	built := make([]*model.Person, len(merged))

	p := pool.New().WithMaxGoroutines(workers)
	for i := range merged {
		i := i
		p.Go(func() {
			built[i] = b.BuildPerson(merged[i])
		})
	}
	p.Wait()

	persons := make([]*model.Person, 0, len(built))
	for _, person := range built {
		if person == nil || len(person.Plans) == 0 {
			continue
		}
		persons = append(persons, person)
	}

	log.Debug().Int("raw", len(raw)).Int("persons", len(persons)).Msg("Built plan set")

	return persons
}

// BuildPerson normalises every plan of one person
func (b *Builder) BuildPerson(raw RawPerson) *model.Person {
	person := &model.Person{
		PersonID: raw.PersonID,
		Plans:    make([]*model.Plan, 0, len(raw.Plans)),
	}

	for _, rawPlan := range raw.Plans {
		plan := &model.Plan{
			Selected:    rawPlan.Selected,
			MatsimScore: rawPlan.Score,
			ServerScore: rawPlan.ServerScore,
			Steps: normalizer.Normalize(rawPlan.Elements, normalizer.Options{
				Facilities: b.Options.Facilities,
				PersonID:   raw.PersonID,
			}),
		}

		b.Options.Transforms.Transform(plan)

		if plan.ServerScore == nil && b.Options.ServerWeights != nil {
			score := scoring.Score(plan, *b.Options.ServerWeights)
			plan.ServerScore = &score
		}

		person.Plans = append(person.Plans, plan)
	}

	for i, plan := range person.Plans {
		if plan.Selected {
			index := i
			person.SelectedPlanIndex = &index
			break
		}
	}

	if b.Options.SelectedOnly && len(person.Plans) > 0 {
		reduced, err := SelectedOnly(person)
		if err != nil {
			log.Error().Err(err).Str("person", person.PersonID).Msg("Failed to reduce person to selected plan")
		} else {
			person = reduced
		}
	}

	return person
}

// Deduplicate drops person blocks without plans, merges repeated person ids
// into their first occurrence and keeps at most limit persons, limit 0 keeps
// all
func Deduplicate(raw []RawPerson, limit int) []RawPerson {
	merged := make([]RawPerson, 0, len(raw))
	positions := map[string]int{}

	for _, person := range raw {
		if len(person.Plans) == 0 {
			log.Debug().Str("person", person.PersonID).Msg("Dropping person without plans")
			continue
		}

		if position, seen := positions[person.PersonID]; seen {
			log.Debug().Str("person", person.PersonID).Msg("Merging repeated person")
			merged[position].Plans = append(merged[position].Plans, person.Plans...)
			continue
		}

		if limit > 0 && len(merged) >= limit {
			continue
		}

		positions[person.PersonID] = len(merged)
		merged = append(merged, RawPerson{
			PersonID: person.PersonID,
			Plans:    append([]RawPlan(nil), person.Plans...),
		})
	}

	return merged
}

// SelectedOnly returns a deep copy of person holding only the plan at its
// default index
func SelectedOnly(person *model.Person) (*model.Person, error) {
	var reduced model.Person

	plan := person.Plan(person.DefaultPlanIndex())
	if plan == nil {
		return &model.Person{PersonID: person.PersonID}, nil
	}

	var copiedPlan model.Plan
	err := copier.CopyWithOption(&copiedPlan, plan, copier.Option{IgnoreEmpty: true, DeepCopy: true})
	if err != nil {
		return nil, err
	}

	reduced.PersonID = person.PersonID
	reduced.Plans = []*model.Plan{&copiedPlan}
	if copiedPlan.Selected {
		index := 0
		reduced.SelectedPlanIndex = &index
	}

	return &reduced, nil
}
