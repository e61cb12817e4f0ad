package matsimplans

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/planscope/planscope/pkg/normalizer"
	"github.com/planscope/planscope/pkg/planset"
)

// Population holds the person blocks of a MATSim plans file
type Population struct {
	// Limit stops parsing once this many distinct persons with plans have
	// been read, 0 reads the whole file
	Limit int

	Persons []planset.RawPerson

	PersonsSkipped int
	Truncated      bool
}

type Person struct {
	ID    string `xml:"id,attr"`
	Plans []Plan `xml:"plan"`
}

type Plan struct {
	Selected string    `xml:"selected,attr"`
	Score    string    `xml:"score,attr"`
	Elements []Element `xml:",any"`
}

type Element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

func (p *Person) ToRaw() planset.RawPerson {
	raw := planset.RawPerson{
		PersonID: p.ID,
		Plans:    make([]planset.RawPlan, 0, len(p.Plans)),
	}

	for _, plan := range p.Plans {
		raw.Plans = append(raw.Plans, plan.ToRaw())
	}

	return raw
}

func (p *Plan) ToRaw() planset.RawPlan {
	raw := planset.RawPlan{
		Selected: strings.EqualFold(p.Selected, "yes") || strings.EqualFold(p.Selected, "true"),
		Elements: make([]normalizer.RawElement, 0, len(p.Elements)),
	}

	if score, err := strconv.ParseFloat(strings.TrimSpace(p.Score), 64); err == nil && !math.IsNaN(score) && !math.IsInf(score, 0) {
		raw.Score = &score
	}

	for _, element := range p.Elements {
		rawElement := normalizer.RawElement{Tag: element.XMLName.Local}
		for _, attr := range element.Attrs {
			rawElement.SetAttribute(attr.Name.Local, attr.Value)
		}
		raw.Elements = append(raw.Elements, rawElement)
	}

	return raw
}
