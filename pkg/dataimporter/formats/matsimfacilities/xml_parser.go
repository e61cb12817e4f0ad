package matsimfacilities

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// Facilities maps facility ids to their coordinates
type Facilities struct {
	Locations map[string]orb.Point

	Skipped int
}

func (f *Facilities) ParseFile(reader io.Reader) error {
	f.Locations = map[string]orb.Point{}
	f.Skipped = 0

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if err == io.EOF {
			// EOF means we're done.
			break
		} else if err != nil {
			return fmt.Errorf("decoding facilities token: %w", err)
		}

		ty, ok := tok.(xml.StartElement)
		if !ok || ty.Name.Local != "facility" {
			continue
		}

		var id, x, y string
		for _, attr := range ty.Attr {
			switch attr.Name.Local {
			case "id":
				id = attr.Value
			case "x":
				x = attr.Value
			case "y":
				y = attr.Value
			}
		}

		xValue, xErr := strconv.ParseFloat(x, 64)
		yValue, yErr := strconv.ParseFloat(y, 64)
		if id == "" || xErr != nil || yErr != nil {
			f.Skipped++
			continue
		}

		f.Locations[id] = orb.Point{xValue, yValue}
	}

	log.Info().Msgf("Successfully parsed facilities document")
	log.Info().Msgf(" - Contains %d facilities", len(f.Locations))

	return nil
}
