package checker

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// DefaultFakeSources are public proxy lists that generated candidates are
// attributed to when they fail. The label is cosmetic.
var DefaultFakeSources = []string{
	"https://api.proxyscrape.com/v2/?request=getproxies&protocol=http",
	"https://free-proxy-list.net/",
	"https://www.proxynova.com/proxy-server-list/",
	"https://spys.one/en/anonymous-proxy-list/",
	"https://www.proxy-list.download/api/v1/get?type=http",
	"https://raw.githubusercontent.com/TheSpeedX/PROXY-List/master/http.txt",
	"https://proxylist.geonode.com/api/proxy-list",
}

// SourcePicker draws attribution URLs uniformly from a fixed catalog.
// It is safe for concurrent use.
type SourcePicker struct {
	mu      sync.Mutex
	rng     *rand.Rand
	catalog []string
}

// NewSourcePicker returns a picker over catalog. A nil rng gets a seeded
// PCG source from the runtime.
func NewSourcePicker(catalog []string, rng *rand.Rand) *SourcePicker {
	if len(catalog) == 0 {
		catalog = DefaultFakeSources
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SourcePicker{rng: rng, catalog: slices.Clone(catalog)}
}

// Pick returns one catalog entry.
func (p *SourcePicker) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.catalog[p.rng.IntN(len(p.catalog))]
}

// Contains reports whether url belongs to the catalog.
func (p *SourcePicker) Contains(url string) bool {
	return slices.Contains(p.catalog, url)
}
