package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/planscope/planscope/pkg/dataimporter/datasets"
	"github.com/rs/zerolog/log"
)

var ErrDatasetNotFound = errors.New("dataset could not be found")

func GetDataset(directory string, identifier string) (datasets.DataSet, error) {
	registered, err := GetRegisteredDataSets(directory)
	if err != nil {
		return datasets.DataSet{}, err
	}

	for _, dataset := range registered {
		if dataset.Identifier == identifier {
			return dataset, nil
		}
	}

	return datasets.DataSet{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, identifier)
}

// ImportDataset fetches the dataset source when it is remote and loads it
// as a scenario
func ImportDataset(ctx context.Context, dataset *datasets.DataSet, options LoadOptions) (*Scenario, error) {
	log.Info().Str("id", dataset.Identifier).Str("format", string(dataset.Format)).Msg("Importing dataset")

	source := dataset.Source
	if isValidUrl(source) {
		if dataset.Format == datasets.DataSetFormatMATSimScenario {
			return nil, fmt.Errorf("%s: scenario directories cannot be downloaded", dataset.Identifier)
		}

		downloaded, cleanup, err := tempDownloadFile(ctx, source, dataset.SourceAuthentication)
		if err != nil {
			return nil, err
		}
		defer cleanup()

		source = downloaded
	}

	var files ScenarioFiles
	switch dataset.Format {
	case datasets.DataSetFormatMATSimScenario:
		discovered, err := DiscoverFiles(source)
		if err != nil {
			return nil, err
		}
		files = discovered
	case datasets.DataSetFormatMATSimPlans:
		files.Plans = source
	case datasets.DataSetFormatMATSimTrips:
		files.Trips = source
	case datasets.DataSetFormatMATSimNetwork:
		files.Network = source
	case datasets.DataSetFormatMATSimFacilities:
		files.Facilities = source
	default:
		return nil, fmt.Errorf("unrecognised format %s", dataset.Format)
	}

	if options.Limit == 0 {
		options.Limit = dataset.Limit
	}
	options.SelectedOnly = options.SelectedOnly || dataset.SelectedOnly

	return LoadScenario(ctx, files, options)
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// tempDownloadFile stores source in a fresh temporary directory under its
// own file name, so plans files keep a recognisable name for the dataset key
func tempDownloadFile(ctx context.Context, source string, authentication datasets.SourceAuthentication) (string, func(), error) {
	sourceURL, err := url.Parse(source)
	if err != nil {
		return "", nil, err
	}

	query := sourceURL.Query()
	for key, value := range authentication.Query {
		query.Set(key, value)
	}
	sourceURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL.String(), nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("User-Agent", "curl/7.54.1")

	for key, value := range authentication.Header {
		req.Header.Set(key, value)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("downloading %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("downloading %s: status %d", source, resp.StatusCode)
	}

	fileName := path.Base(sourceURL.Path)
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err == nil && params["filename"] != "" {
		fileName = filepath.Base(params["filename"])
	}
	if fileName == "" || fileName == "/" || fileName == "." {
		fileName = "download"
	}

	directory, err := os.MkdirTemp(os.TempDir(), "planscope-data-importer-")
	if err != nil {
		return "", nil, fmt.Errorf("cannot create temporary directory: %w", err)
	}
	cleanup := func() {
		os.RemoveAll(directory)
	}

	tmpFile, err := os.Create(filepath.Join(directory, fileName))
	if err != nil {
		cleanup()
		return "", nil, err
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("downloading %s: %w", source, err)
	}

	log.Debug().Str("source", source).Str("file", tmpFile.Name()).Msg("Downloaded dataset")

	return tmpFile.Name(), cleanup, nil
}
