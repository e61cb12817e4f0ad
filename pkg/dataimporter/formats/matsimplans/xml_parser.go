package matsimplans

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/planscope/planscope/pkg/planset"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

func (p *Population) ParseFile(reader io.Reader) error {
	p.Persons = []planset.RawPerson{}
	p.PersonsSkipped = 0
	p.Truncated = false

	seen := map[string]bool{}

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if err == io.EOF {
			// EOF means we're done.
			break
		} else if err != nil {
			return fmt.Errorf("decoding plans token: %w", err)
		}

		ty, ok := tok.(xml.StartElement)
		if !ok || ty.Name.Local != "person" {
			continue
		}

		var person Person
		if err = d.DecodeElement(&person, &ty); err != nil {
			return fmt.Errorf("decoding person: %w", err)
		}

		if len(person.Plans) == 0 {
			p.PersonsSkipped++
			log.Debug().Str("person", person.ID).Msg("Skipping person without plans")
			continue
		}

		if !seen[person.ID] && p.Limit > 0 && len(seen) >= p.Limit {
			p.Truncated = true
			break
		}
		seen[person.ID] = true

		p.Persons = append(p.Persons, person.ToRaw())
	}

	log.Info().Msgf("Successfully parsed plans document")
	log.Info().Msgf(" - Contains %d persons", len(seen))
	if p.Truncated {
		log.Info().Msgf(" - Stopped at the limit of %d persons", p.Limit)
	}

	return nil
}
