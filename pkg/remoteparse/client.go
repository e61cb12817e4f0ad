package remoteparse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/planscope/planscope/pkg/dataimporter/formats"
	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/util"
	"github.com/rs/zerolog/log"
)

var ErrRemoteParseFailure = errors.New("remote parse failed")

const maxErrorBody = 200

// Upload is one multipart file part
type Upload struct {
	Name   string
	Reader io.Reader
}

type Request struct {
	Plans      *Upload
	Facilities *Upload

	// Limit and SelectedOnly are passed as query parameters, zero values
	// leave the server defaults in place
	Limit        int
	SelectedOnly *bool
}

type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// Parse uploads the plans file and returns the persons the delegate built.
// Any response that is not a JSON array of persons is a failure. There is no
// retry.
func (c *Client) Parse(ctx context.Context, request Request) ([]*model.Person, error) {
	if request.Plans == nil || request.Plans.Reader == nil {
		return nil, fmt.Errorf("%w: plans file", formats.ErrMissingRequiredFile)
	}

	endpoint, err := c.endpointURL(request)
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writePart(writer, "file", request.Plans); err != nil {
		return nil, err
	}
	if request.Facilities != nil && request.Facilities.Reader != nil {
		if err := writePart(writer, "facilities", request.Facilities); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("endpoint", endpoint).Str("file", request.Plans.Name).Msg("Sending plans to parse server")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRemoteParseFailure, endpoint, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading body: %w", ErrRemoteParseFailure, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrRemoteParseFailure, endpoint, resp.StatusCode, util.TrimString(string(responseBody), maxErrorBody))
	}

	trimmed := bytes.TrimSpace(responseBody)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s returned %d: expected a JSON array: %s", ErrRemoteParseFailure, endpoint, resp.StatusCode, util.TrimString(string(trimmed), maxErrorBody))
	}

	var persons []*model.Person
	if err := json.Unmarshal(trimmed, &persons); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding persons: %w", ErrRemoteParseFailure, endpoint, err)
	}

	log.Debug().Str("endpoint", endpoint).Int("persons", len(persons)).Msg("Parse server responded")

	return persons, nil
}

func (c *Client) endpointURL(request Request) (string, error) {
	parsed, err := url.Parse(c.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid endpoint %q", ErrRemoteParseFailure, c.Endpoint)
	}

	query := parsed.Query()
	if request.Limit > 0 {
		query.Set("limit", strconv.Itoa(request.Limit))
	}
	if request.SelectedOnly != nil {
		query.Set("selected_only", strconv.FormatBool(*request.SelectedOnly))
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func writePart(writer *multipart.Writer, field string, upload *Upload) error {
	name := upload.Name
	if name == "" {
		name = field
	}

	part, err := writer.CreateFormFile(field, name)
	if err != nil {
		return err
	}

	_, err = io.Copy(part, upload.Reader)
	return err
}
