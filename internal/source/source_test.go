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

package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "sqlsplit/internal/errors"
)

const script = "CREATE TABLE t (a INT);\nINSERT INTO t VALUES (1);\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestLoadPlainFile(t *testing.T) {
	loader, err := NewLoader("")
	require.NoError(t, err)

	in, err := loader.Load(writeFile(t, "a.sql", []byte(script)))
	require.NoError(t, err)
	assert.Equal(t, script, in.Text)
	assert.Equal(t, CompressionNone, in.Compression)
	assert.Equal(t, len(script), in.Size)
}

func TestLoadCompressed(t *testing.T) {
	tests := []struct {
		name string
		file string
		data func(*testing.T, string) []byte
		want Compression
	}{
		{"gzip", "a.sql.gz", gzipped, CompressionGzip},
		{"zstd", "a.sql.zst", zstded, CompressionZstd},
		{"gzip without extension", "dump", gzipped, CompressionGzip},
	}

	loader, err := NewLoader("utf-8")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := loader.Load(writeFile(t, tt.file, tt.data(t, script)))
			require.NoError(t, err)
			assert.Equal(t, script, in.Text)
			assert.Equal(t, tt.want, in.Compression)
		})
	}
}

func TestLoadStdin(t *testing.T) {
	loader, err := NewLoader("")
	require.NoError(t, err)

	in, err := loader.WithStdin(bytes.NewReader(zstded(t, script))).Load(Stdin)
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", in.Name)
	assert.Equal(t, script, in.Text)
}

func TestLoadMissing(t *testing.T) {
	loader, err := NewLoader("")
	require.NoError(t, err)

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.sql"))
	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeInputNotFound, ferrors.GetCode(err))
}

func TestLoadCorruptGzip(t *testing.T) {
	data := gzipped(t, strings.Repeat(script, 10))
	loader, err := NewLoader("")
	require.NoError(t, err)

	_, err = loader.Read("broken.gz", bytes.NewReader(data[:len(data)/2]))
	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeDecompressFailed, ferrors.GetCode(err))
}

func TestLegacyEncodings(t *testing.T) {
	tests := []struct {
		encoding string
		data     []byte
		want     string
	}{
		{"latin1", []byte("SELECT 'caf\xe9';"), "SELECT 'café';"},
		{"windows-1252", []byte("SELECT '\x80 5';"), "SELECT '€ 5';"},
		{"ISO-8859-15", []byte("SELECT '\xa4';"), "SELECT '€';"},
	}

	for _, tt := range tests {
		loader, err := NewLoader(tt.encoding)
		require.NoError(t, err, tt.encoding)

		in, err := loader.Read("x.sql", bytes.NewReader(tt.data))
		require.NoError(t, err)
		assert.Equal(t, tt.want, in.Text, tt.encoding)
	}
}

func TestUTF8PassThrough(t *testing.T) {
	raw := []byte("SELECT '\xff\xfe';")
	loader, err := NewLoader("utf8")
	require.NoError(t, err)

	in, err := loader.Read("x.sql", bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, string(raw), in.Text)
}

func TestUnknownEncoding(t *testing.T) {
	_, err := NewLoader("ebcdic")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryEncoding))
	assert.Contains(t, Encodings(), "latin1")
}
