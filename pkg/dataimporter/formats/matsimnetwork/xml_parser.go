package matsimnetwork

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

func (n *Network) ParseFile(reader io.Reader) error {
	n.Nodes = map[string]*Node{}
	n.Links = []*Link{}
	n.LinksSkipped = 0

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if err == io.EOF {
			// EOF means we're done.
			break
		} else if err != nil {
			return fmt.Errorf("decoding network token: %w", err)
		}

		ty, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		attributes := map[string]string{}
		for _, attr := range ty.Attr {
			attributes[attr.Name.Local] = attr.Value
		}

		switch ty.Name.Local {
		case "network":
			n.Name = attributes["name"]
		case "node":
			x, xErr := strconv.ParseFloat(attributes["x"], 64)
			y, yErr := strconv.ParseFloat(attributes["y"], 64)
			if attributes["id"] == "" || xErr != nil || yErr != nil {
				log.Debug().Str("node", attributes["id"]).Msg("Skipping node without coordinates")
				continue
			}

			n.Nodes[attributes["id"]] = &Node{ID: attributes["id"], X: x, Y: y}
		case "link":
			if attributes["id"] == "" || attributes["from"] == "" || attributes["to"] == "" {
				n.LinksSkipped++
				continue
			}

			n.Links = append(n.Links, &Link{
				ID:        attributes["id"],
				From:      attributes["from"],
				To:        attributes["to"],
				Length:    parseNumber(attributes["length"]),
				FreeSpeed: parseNumber(attributes["freespeed"]),
				Capacity:  parseNumber(attributes["capacity"]),
				Lanes:     parseNumber(attributes["permlanes"]),
				Modes:     parseModes(attributes["modes"]),
			})
		}
	}

	log.Info().Msgf("Successfully parsed network document")
	log.Info().Msgf(" - Contains %d nodes", len(n.Nodes))
	log.Info().Msgf(" - Contains %d links", len(n.Links))

	return nil
}

func parseNumber(value string) float64 {
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return number
}
