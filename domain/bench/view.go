package bench

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"

	"milk-bench/domain/kpi"
	"milk-bench/domain/lactation"
	"milk-bench/domain/peers"
	"milk-bench/domain/sample"
	"milk-bench/domain/stats"
)

// DefaultLactations is how many cycles a view shows when the request does
// not say otherwise.
const DefaultLactations = 3

// YearMonth is a calendar month, Month 0-11.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (ym YearMonth) ordinal() int { return ym.Year*12 + ym.Month }

// Period selects the reporting window: either the last Lactations cycles,
// or an explicit [From, To] month range when both bounds are set.
type Period struct {
	Lactations int        `json:"lactations,omitempty"`
	From       *YearMonth `json:"from,omitempty"`
	To         *YearMonth `json:"to,omitempty"`
}

func (p Period) explicit() bool { return p.From != nil && p.To != nil }

func (p Period) contains(ym YearMonth) bool {
	if !p.explicit() {
		return true
	}
	o := ym.ordinal()
	return o >= p.From.ordinal() && o <= p.To.ordinal()
}

func (p Period) signature() string {
	if p.explicit() {
		return fmt.Sprintf("range:%d-%d:%d-%d", p.From.Year, p.From.Month, p.To.Year, p.To.Month)
	}
	n := p.Lactations
	if n <= 0 {
		n = DefaultLactations
	}
	return fmt.Sprintf("last:%d", n)
}

// Request carries every UI-selected parameter the pipeline depends on. The
// core reads only this object, never the UI.
type Request struct {
	KPI      string     `json:"kpi"`
	EntityID string     `json:"entityId"`
	Mode     peers.Mode `json:"mode"`
	Province string     `json:"province,omitempty"`
	Period   Period     `json:"period"`
}

// FilterSignature identifies the peer-group filter for cache keying. A
// request whose signature differs can never be served from another
// request's cache entry.
func (r Request) FilterSignature() string {
	return fmt.Sprintf("%s|%s|%s", r.Mode, r.Province, r.Period.signature())
}

// CycleSeries is one lactation cycle's chart data. Slots follow the cycle
// order (0 = October); nil marks months without data and serializes as
// JSON null, which the chart layer renders as a gap.
type CycleSeries struct {
	StartYear       int          `json:"startYear"`
	Label           string       `json:"label"`
	EntityValues    [12]*float64 `json:"entityValues"`
	PeerMedians     [12]*float64 `json:"peerMedians"`
	PercentileRanks [12]*int     `json:"percentileRanks"`
}

// Summary is the descriptive-statistics block shown next to the histogram.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ViewModel is the chart-ready output of one pipeline run.
type ViewModel struct {
	KPI            kpi.Definition `json:"kpi"`
	EntityID       string         `json:"entityId"`
	Mode           peers.Mode     `json:"mode"`
	Province       string         `json:"province,omitempty"`
	Cycles         []CycleSeries  `json:"cycles"`
	Histogram      []stats.Bin    `json:"histogram"`
	HistogramMonth *YearMonth     `json:"histogramMonth,omitempty"`
	Summary        *Summary       `json:"summary,omitempty"`
}

// Engine runs the benchmark pipeline. It owns the index cache; providers
// plug in alternative peer-value sources for special processor groups.
type Engine struct {
	catalog   *kpi.Catalog
	providers *peers.ProviderRegistry
	cache     *Cache
}

// NewEngine wires a pipeline engine. providers may be nil.
func NewEngine(catalog *kpi.Catalog, providers *peers.ProviderRegistry) *Engine {
	if providers == nil {
		providers = peers.NewProviderRegistry()
	}
	return &Engine{catalog: catalog, providers: providers, cache: NewCache()}
}

// InvalidateCache drops every cached index. Call it when the dataset is
// reloaded; per-request parameter changes are already covered by the
// cache key.
func (e *Engine) InvalidateCache() { e.cache.InvalidateAll() }

// ComputeDashboardView runs the full pipeline for one request:
// peer selection -> normalize -> aggregate -> year-month index ->
// per-cycle percentile ranks and peer medians -> histogram and summary of
// the most recent month. Re-run it on any input change; nothing inside
// observes the UI.
func (e *Engine) ComputeDashboardView(rows []sample.RawSample, req Request) *ViewModel {
	def, ok := e.catalog.Lookup(req.KPI)
	if !ok {
		def = kpi.Definition{Key: req.KPI, Label: req.KPI}
	}

	peerRows := peers.Select(rows, req.Mode, req.EntityID, req.Province)
	provider := e.providerFor(rows, req)

	ix := e.cache.GetOrBuild(def.Key, req.EntityID, req.FilterSignature(), func() *Index {
		recs := sample.Normalize(peerRows, def.Key, e.catalog)
		return BuildIndex(sample.Aggregate(recs, e.catalog.Geometric(def.Key)))
	})

	vm := &ViewModel{
		KPI:      def,
		EntityID: req.EntityID,
		Mode:     req.Mode,
		Province: req.Province,
	}

	var latest *YearMonth
	for _, startYear := range e.cycleStartYears(ix, req) {
		series := CycleSeries{StartYear: startYear, Label: lactation.Label(startYear)}
		for idx := 0; idx < 12; idx++ {
			year, month0 := lactation.Position{StartYear: startYear, Index: idx}.Calendar()
			ym := YearMonth{year, month0}
			if !req.Period.contains(ym) {
				continue
			}
			group, haveMonth := ix.Month(year, month0)

			peerValues := e.peerValues(provider, def.Key, group, year, month0)
			if median, ok := stats.Median(peerValues); ok {
				series.PeerMedians[idx] = &median
			}
			if !haveMonth {
				continue
			}
			if v, ok := group.ValuesByEntity[req.EntityID]; ok {
				value := v
				series.EntityValues[idx] = &value
				if rank, ok := stats.PercentileRank(peerValues, value); ok {
					series.PercentileRanks[idx] = &rank
				}
				if latest == nil || ym.ordinal() > latest.ordinal() {
					latest = &YearMonth{year, month0}
				}
			}
		}
		vm.Cycles = append(vm.Cycles, series)
	}

	if latest != nil {
		vm.HistogramMonth = latest
		group, _ := ix.Month(latest.Year, latest.Month)
		values := e.peerValues(provider, def.Key, group, latest.Year, latest.Month)
		vm.Histogram = stats.ComputeHistogram(values).BinList()
		vm.Summary = summarize(values)
	}

	return vm
}

// MonthDistribution computes the histogram and summary of one calendar
// month's peer distribution, for the dedicated distribution endpoint.
func (e *Engine) MonthDistribution(rows []sample.RawSample, req Request, year, month0 int) ([]stats.Bin, *Summary) {
	peerRows := peers.Select(rows, req.Mode, req.EntityID, req.Province)
	provider := e.providerFor(rows, req)

	recs := sample.Normalize(peerRows, req.KPI, e.catalog)
	ix := BuildIndex(sample.Aggregate(recs, e.catalog.Geometric(req.KPI)))
	group, _ := ix.Month(year, month0)

	values := e.peerValues(provider, req.KPI, group, year, month0)
	return stats.ComputeHistogram(values).BinList(), summarize(values)
}

// providerFor returns the substitute peer-value source, when the request
// targets a processor group with one registered.
func (e *Engine) providerFor(rows []sample.RawSample, req Request) peers.ValueProvider {
	if req.Mode != peers.ModeProcessor {
		return nil
	}
	group := peers.GroupOf(rows, req.EntityID)
	if group == "" {
		return nil
	}
	p, ok := e.providers.Lookup(group)
	if !ok {
		return nil
	}
	return p
}

func (e *Engine) peerValues(provider peers.ValueProvider, kpiKey string, group *MonthGroup, year, month0 int) []float64 {
	if provider != nil {
		return provider.PeerValues(kpiKey, year, month0)
	}
	if group == nil {
		return nil
	}
	return group.Values()
}

// cycleStartYears picks the cycles the view covers: those spanning an
// explicit range, or the last N cycles the target entity reported in
// (falling back to the whole index when the entity has no data at all).
func (e *Engine) cycleStartYears(ix *Index, req Request) []int {
	if req.Period.explicit() {
		from := lactation.Of(req.Period.From.Year, req.Period.From.Month).StartYear
		to := lactation.Of(req.Period.To.Year, req.Period.To.Month).StartYear
		var years []int
		for y := from; y <= to; y++ {
			years = append(years, y)
		}
		return years
	}

	var entityPairs, allPairs [][2]int
	for _, g := range ix.Months() {
		allPairs = append(allPairs, [2]int{g.Year, g.Month})
		if _, ok := g.ValuesByEntity[req.EntityID]; ok {
			entityPairs = append(entityPairs, [2]int{g.Year, g.Month})
		}
	}
	pairs := entityPairs
	if len(pairs) == 0 {
		pairs = allPairs
	}
	n := req.Period.Lactations
	if n <= 0 {
		n = DefaultLactations
	}
	return lactation.LastCycles(pairs, n)
}

func summarize(values []float64) *Summary {
	if len(values) == 0 {
		return nil
	}
	mean, err := mstats.Mean(values)
	if err != nil {
		return nil
	}
	sd, _ := mstats.StandardDeviation(values)
	min, _ := mstats.Min(values)
	max, _ := mstats.Max(values)
	return &Summary{Count: len(values), Mean: mean, StdDev: sd, Min: min, Max: max}
}
