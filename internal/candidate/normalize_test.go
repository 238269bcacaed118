package candidate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dot5/internal/model"
)

func TestNormalizeDropsUnparseableLines(t *testing.T) {
	lines := []string{"not-an-ip", "", "   ", "1.2.3", "1.2.3.4:123456", "u@1.2.3.4", "a:b:c@1.2.3.4:80"}
	require.Empty(t, Normalize(lines, []int{80, 3128}))
}

func TestNormalizeBareIPExpandsDefaultPorts(t *testing.T) {
	got := Normalize([]string{"203.0.113.5"}, []int{80, 3128})
	require.Len(t, got, 2)

	require.Equal(t, "http://203.0.113.5:80", got[0].Proxy)
	require.Equal(t, "http://203.0.113.5:3128", got[1].Proxy)
	for _, c := range got {
		require.Equal(t, model.SourceGenerated, c.Source)
		require.Equal(t, []int{80, 3128}, c.PortsTried)
		require.Equal(t, "203.0.113.5", c.Input)
	}
}

func TestNormalizeExplicitPortWithCredentials(t *testing.T) {
	got := Normalize([]string{"u:p@203.0.113.5:8080"}, []int{80, 8080, 3128})
	require.Len(t, got, 1)
	require.Equal(t, model.Candidate{
		Input:      "u:p@203.0.113.5:8080",
		Proxy:      "http://u:p@203.0.113.5:8080",
		Source:     model.SourceProvided,
		PortsTried: []int{8080},
	}, got[0])
}

func TestNormalizeTrimsInput(t *testing.T) {
	got := Normalize([]string{"  10.0.0.1:3128\t"}, nil)
	require.Len(t, got, 1)
	require.Equal(t, "10.0.0.1:3128", got[0].Input)
}

func TestNormalizeOutOfRangeOctetsAreSyntacticallyAccepted(t *testing.T) {
	got := Normalize([]string{"999.1.1.1:80"}, nil)
	require.Len(t, got, 1)
	require.Equal(t, "http://999.1.1.1:80", got[0].Proxy)
}

func TestNormalizeDeduplicatesFirstWins(t *testing.T) {
	got := Normalize([]string{"203.0.113.5", "203.0.113.5:80"}, []int{80, 8080})
	require.Len(t, got, 2)
	require.Equal(t, "http://203.0.113.5:80", got[0].Proxy)
	require.Equal(t, model.SourceGenerated, got[0].Source)
	require.Equal(t, []int{80, 8080}, got[0].PortsTried)
	require.Equal(t, "203.0.113.5", got[0].Input)
}

func TestNormalizeDedupIsStringEquality(t *testing.T) {
	got := Normalize([]string{"U:p@1.1.1.1:80", "u:p@1.1.1.1:80"}, nil)
	require.Len(t, got, 2)
}

func TestNormalizeSchemeSocks5(t *testing.T) {
	got := NormalizeScheme([]string{"1.1.1.1:1080"}, nil, "socks5")
	require.Len(t, got, 1)
	require.Equal(t, "socks5://1.1.1.1:1080", got[0].Proxy)
}

func TestNormalizeBareIPWithNoDefaultPorts(t *testing.T) {
	require.Empty(t, Normalize([]string{"1.1.1.1"}, nil))
}

func TestParse(t *testing.T) {
	addr, ok := Parse(" user:secret@192.168.0.10:8888 ")
	require.True(t, ok)
	require.Equal(t, Address{User: "user", Pass: "secret", IP: "192.168.0.10", Port: "8888"}, addr)
	require.True(t, addr.HasPort())

	addr, ok = Parse("192.168.0.10")
	require.True(t, ok)
	require.False(t, addr.HasPort())

	_, ok = Parse("example.com:80")
	require.False(t, ok)
}
