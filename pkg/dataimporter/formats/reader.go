package formats

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Decompress sniffs the leading bytes of reader and unwraps gzip or xz
// content. Anything else is returned as is.
func Decompress(reader io.Reader) (io.Reader, error) {
	buffered := bufio.NewReader(reader)

	head, err := buffered.Peek(len(xzMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return gzip.NewReader(buffered)
	case bytes.HasPrefix(head, xzMagic):
		return xz.NewReader(buffered)
	default:
		return buffered, nil
	}
}

// ParseFile runs format over the decompressed content of reader
func ParseFile(format Format, reader io.Reader) error {
	decompressed, err := Decompress(reader)
	if err != nil {
		return err
	}

	return format.ParseFile(decompressed)
}
