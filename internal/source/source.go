/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package source reads SQL scripts into memory for splitting.

An input is a file path or "-" for stdin. Compressed inputs are detected
by their magic bytes, so "dump.sql.gz" and a zstd stream piped to stdin
both work:

	gzip: 1f 8b
	zstd: 28 b5 2f fd

After decompression the bytes are decoded from the configured character
encoding into a Go string. UTF-8 input is passed through unchanged, invalid
sequences included, which keeps the splitter's output byte-identical to the
file.
*/
package source

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	ferrors "sqlsplit/internal/errors"
)

// Stdin is the input name that reads standard input.
const Stdin = "-"

// Compression identifies the container format of an input.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf-8"

// encodings maps accepted names to decoders. A nil decoder means the bytes
// are used as they are.
var encodings = map[string]encoding.Encoding{
	"utf-8":        nil,
	"utf8":         nil,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"windows-1250": charmap.Windows1250,
	"koi8-r":       charmap.KOI8R,
}

// Encodings returns the accepted encoding names in sorted order.
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupEncoding validates an encoding name. An empty name selects
// DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultEncoding
	}
	enc, ok := encodings[key]
	if !ok {
		return nil, ferrors.UnknownEncoding(name, Encodings())
	}
	return enc, nil
}

// Input is one loaded script.
type Input struct {
	Name        string
	Text        string
	Size        int // bytes after decompression, before decoding
	Compression Compression
}

// Loader reads inputs with a fixed character encoding.
type Loader struct {
	encoding string
	decoder  encoding.Encoding
	stdin    io.Reader
}

// NewLoader creates a Loader for the named encoding.
func NewLoader(encodingName string) (*Loader, error) {
	dec, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	return &Loader{encoding: encodingName, decoder: dec, stdin: os.Stdin}, nil
}

// WithStdin returns a copy of the loader that reads "-" from r.
func (l *Loader) WithStdin(r io.Reader) *Loader {
	cp := *l
	cp.stdin = r
	return &cp
}

// Encoding returns the loader's encoding name.
func (l *Loader) Encoding() string {
	return l.encoding
}

// Load reads the named input: a file path, or Stdin.
func (l *Loader) Load(name string) (Input, error) {
	if name == "" || name == Stdin {
		return l.Read("<stdin>", l.stdin)
	}

	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return Input{}, ferrors.InputNotFound(name)
		}
		return Input{}, ferrors.ReadFailed(name, err)
	}
	defer f.Close()

	return l.Read(name, f)
}

// Read loads an input from r, decompressing and decoding as needed.
func (l *Loader) Read(name string, r io.Reader) (Input, error) {
	br := bufio.NewReader(r)
	kind := sniff(br)

	var body io.Reader = br
	switch kind {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return Input{}, ferrors.DecompressFailed(name, string(kind), err)
		}
		defer zr.Close()
		body = zr
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return Input{}, ferrors.DecompressFailed(name, string(kind), err)
		}
		defer zr.Close()
		body = zr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		if kind != CompressionNone {
			return Input{}, ferrors.DecompressFailed(name, string(kind), err)
		}
		return Input{}, ferrors.ReadFailed(name, err)
	}

	text, err := l.decode(data)
	if err != nil {
		return Input{}, ferrors.ReadFailed(name, err).WithDetail("decoding from " + l.encoding)
	}

	return Input{Name: name, Text: text, Size: len(data), Compression: kind}, nil
}

func (l *Loader) decode(data []byte) (string, error) {
	if l.decoder == nil {
		return string(data), nil
	}
	out, err := l.decoder.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// sniff peeks at the first bytes of the stream without consuming them.
func sniff(br *bufio.Reader) Compression {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	}
	return CompressionNone
}
