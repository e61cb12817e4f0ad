package formats

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const sample = "<population></population>"

func TestDecompressPlain(t *testing.T) {
	reader, err := Decompress(strings.NewReader(sample))
	require.NoError(t, err)

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, sample, string(content))
}

func TestDecompressShortInput(t *testing.T) {
	reader, err := Decompress(strings.NewReader("<a"))
	require.NoError(t, err)

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "<a", string(content))
}

func TestDecompressGzip(t *testing.T) {
	var buffer bytes.Buffer
	writer := gzip.NewWriter(&buffer)
	_, err := writer.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := Decompress(&buffer)
	require.NoError(t, err)

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, sample, string(content))
}

func TestDecompressXZ(t *testing.T) {
	var buffer bytes.Buffer
	writer, err := xz.NewWriter(&buffer)
	require.NoError(t, err)
	_, err = writer.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := Decompress(&buffer)
	require.NoError(t, err)

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, sample, string(content))
}

type countingFormat struct {
	bytes int
}

func (c *countingFormat) ParseFile(reader io.Reader) error {
	content, err := io.ReadAll(reader)
	c.bytes = len(content)
	return err
}

func TestParseFile(t *testing.T) {
	format := &countingFormat{}
	require.NoError(t, ParseFile(format, strings.NewReader(sample)))
	assert.Equal(t, len(sample), format.bytes)
}
