package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func TestParseLinesSkipsBlankAndComments(t *testing.T) {
	got, err := ParseLines([]byte("# proxies\n1.1.1.1\r\n\n  2.2.2.2:8080  \nnot-an-ip\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"1.1.1.1", "2.2.2.2:8080", "not-an-ip"}, got)
}

func TestParseLinesUTF8BOM(t *testing.T) {
	got, err := ParseLines(append([]byte{0xEF, 0xBB, 0xBF}, []byte("1.1.1.1\n")...))
	require.NoError(t, err)
	require.Equal(t, []string{"1.1.1.1"}, got)
}

func TestParseLinesUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, _, err := transform.Bytes(enc, []byte("3.3.3.3:3128\n"))
	require.NoError(t, err)

	got, err := ParseLines(data)
	require.NoError(t, err)
	require.Equal(t, []string{"3.3.3.3:3128"}, got)
}

func TestParseLinesGBK(t *testing.T) {
	data, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte("# 代理列表\n4.4.4.4:80\n"))
	require.NoError(t, err)

	got, err := ParseLines(data)
	require.NoError(t, err)
	require.Equal(t, []string{"4.4.4.4:80"}, got)
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("5.5.5.5\n"), 0o644))

	got, err := ReadLines(path)
	require.NoError(t, err)
	require.Equal(t, []string{"5.5.5.5"}, got)

	_, err = ReadLines(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
