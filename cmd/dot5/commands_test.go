package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dot5/internal/model"
)

func TestParsePorts(t *testing.T) {
	got, err := parsePorts("80, 8080,,3128")
	require.NoError(t, err)
	require.Equal(t, []int{80, 8080, 3128}, got)

	_, err = parsePorts("80,http")
	require.Error(t, err)
	_, err = parsePorts("70000")
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a ,,http://b"))
	require.Nil(t, splitList(" , "))
}

func TestFilterReal(t *testing.T) {
	in := []model.Report{
		{Input: "1.1.1.1", Status: model.StatusFake},
		{Input: "2.2.2.2", Status: model.StatusReal},
	}
	got := filterReal(in)
	require.Len(t, got, 1)
	require.Equal(t, "2.2.2.2", got[0].Input)
	require.Len(t, in, 2)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "ab…", truncate("abcdef", 2))
}
