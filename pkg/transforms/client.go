package transforms

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Set []*TransformDefinition

type transformsFile struct {
	Transforms []*TransformDefinition `yaml:"transforms"`
}

// Parse reads one or more YAML documents each holding a transforms list
func Parse(reader io.Reader) (Set, error) {
	var set Set

	decoder := yaml.NewDecoder(reader)
	for {
		var file transformsFile
		err := decoder.Decode(&file)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		set = append(set, file.Transforms...)
	}

	return set, nil
}

// Load walks directory and parses every .yaml file found. A missing
// directory gives an empty set.
func Load(directory string) (Set, error) {
	var set Set

	if _, err := os.Stat(directory); errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("directory", directory).Msg("No transforms directory")
		return set, nil
	}

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() {
				return nil
			}

			extension := filepath.Ext(path)
			if extension != ".yaml" && extension != ".yml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading transforms file")

			transformYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			parsed, err := Parse(bytes.NewReader(transformYaml))
			if err != nil {
				return err
			}

			set = append(set, parsed...)

			return nil
		})
	if err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(set)).Msg("Loaded transforms")

	return set, nil
}
