package autoarima

import (
	"errors"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// criterionTol is the floating tolerance within which two criterion
// scores count as tied; ties go to the smaller total order, then the
// smaller p, so selection is deterministic and reproducible.
const criterionTol = 1e-7

// candidate identifies one search node. d, sd and m are fixed for the
// whole search, so the key is only the free orders and the intercept.
type candidate struct {
	p, q, sp, sq int
	intercept    bool
}

type fitted struct {
	cand  candidate
	model *arima.Model
	score float64
}

type search struct {
	series  *timeseries.Series
	d, sd   int
	cfg     *Config
	visited map[candidate]bool
	fitted  []fitted
	tried   int
}

func newSearch(series *timeseries.Series, d, sd int, cfg *Config) *search {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxSearchSteps <= 0 {
		cfg.MaxSearchSteps = 50
	}
	return &search{
		series:  series,
		d:       d,
		sd:      sd,
		cfg:     cfg,
		visited: make(map[candidate]bool),
	}
}

func (s *search) run() (*Result, error) {
	var best *fitted
	var err error
	if s.cfg.Mode == Exhaustive {
		best, err = s.exhaustive()
	} else {
		best, err = s.stepwise()
	}
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, ErrSearchExhausted
	}

	result := &Result{
		Model:           best.model,
		Spec:            best.model.Spec,
		CriterionValue:  best.score,
		ModelsEvaluated: s.tried,
	}
	if s.cfg.Leaderboard > 0 {
		result.Leaderboard = s.leaderboard()
	}
	return result, nil
}

// stepwise walks the order lattice: fit the seed specs, then repeatedly
// fit all untried neighbors of the current best and move whenever one
// improves the criterion, within the step budget.
func (s *search) stepwise() (*fitted, error) {
	withIntercept := s.d+s.sd < 2

	seeds := []candidate{
		{p: 0, q: 0, intercept: withIntercept},
		{p: 1, q: 0, intercept: withIntercept},
		{p: 0, q: 1, intercept: withIntercept},
		{p: 2, q: 2, intercept: withIntercept},
		// Drift variant of the simplest seed.
		{p: 0, q: 0, intercept: !withIntercept},
	}
	if s.cfg.Seasonal {
		seeds = append(seeds,
			candidate{p: 1, q: 0, sp: 1, intercept: withIntercept},
			candidate{p: 0, q: 1, sq: 1, intercept: withIntercept},
			candidate{p: 1, q: 1, sp: 1, sq: 1, intercept: withIntercept},
		)
	}

	batch, err := s.fitBatch(seeds)
	if err != nil {
		return nil, err
	}
	best := s.reduce(batch, nil)

	for step := 0; best != nil && step < s.cfg.MaxSearchSteps; step++ {
		batch, err = s.fitBatch(s.neighbors(best.cand))
		if err != nil {
			return nil, err
		}
		improved := s.reduce(batch, best)
		if improved == best {
			break
		}
		best = improved
	}
	return best, nil
}

// exhaustive enumerates the full order grid within bounds.
func (s *search) exhaustive() (*fitted, error) {
	withIntercept := s.d+s.sd < 2

	maxSP, maxSQ := 0, 0
	if s.cfg.Seasonal {
		maxSP, maxSQ = s.cfg.MaxSP, s.cfg.MaxSQ
	}

	var grid []candidate
	for p := 0; p <= s.cfg.MaxP; p++ {
		for q := 0; q <= s.cfg.MaxQ; q++ {
			for sp := 0; sp <= maxSP; sp++ {
				for sq := 0; sq <= maxSQ; sq++ {
					c := candidate{p: p, q: q, sp: sp, sq: sq, intercept: withIntercept}
					if s.admissible(c) {
						grid = append(grid, c)
					}
				}
			}
		}
	}
	batch, err := s.fitBatch(grid)
	if err != nil {
		return nil, err
	}
	return s.reduce(batch, nil), nil
}

// neighbors generates the untried specs one step away from c.
func (s *search) neighbors(c candidate) []candidate {
	steps := []candidate{
		{c.p + 1, c.q, c.sp, c.sq, c.intercept},
		{c.p - 1, c.q, c.sp, c.sq, c.intercept},
		{c.p, c.q + 1, c.sp, c.sq, c.intercept},
		{c.p, c.q - 1, c.sp, c.sq, c.intercept},
		{c.p + 1, c.q + 1, c.sp, c.sq, c.intercept},
		{c.p - 1, c.q - 1, c.sp, c.sq, c.intercept},
		{c.p, c.q, c.sp, c.sq, !c.intercept},
	}
	if s.cfg.Seasonal {
		steps = append(steps,
			candidate{c.p, c.q, c.sp + 1, c.sq, c.intercept},
			candidate{c.p, c.q, c.sp - 1, c.sq, c.intercept},
			candidate{c.p, c.q, c.sp, c.sq + 1, c.intercept},
			candidate{c.p, c.q, c.sp, c.sq - 1, c.intercept},
		)
	}

	out := steps[:0]
	for _, n := range steps {
		if s.admissible(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s *search) admissible(c candidate) bool {
	if c.p < 0 || c.q < 0 || c.sp < 0 || c.sq < 0 {
		return false
	}
	if c.p > s.cfg.MaxP || c.q > s.cfg.MaxQ || c.sp > s.cfg.MaxSP || c.sq > s.cfg.MaxSQ {
		return false
	}
	if c.p+c.q+c.sp+c.sq > s.cfg.MaxOrder {
		return false
	}
	return !s.visited[c]
}

// fitBatch estimates all given candidates in parallel. The series and
// its differenced forms are read-only, so candidate fits are independent
// and only the reduction afterwards needs the results in one place.
func (s *search) fitBatch(cands []candidate) ([]fitted, error) {
	models := make([]*arima.Model, len(cands))

	var g errgroup.Group
	g.SetLimit(s.cfg.Parallelism)

	for i, c := range cands {
		i, c := i, c
		s.visited[c] = true
		g.Go(func() error {
			model := arima.New(s.spec(c))
			model.MaxIterations = s.cfg.MaxFitIterations
			if err := model.Fit(s.series); err != nil {
				// Estimation failure and order-specific data shortage
				// drop the candidate; anything else is fatal to the
				// whole search.
				if errors.Is(err, arima.ErrEstimation) || errors.Is(err, stats.ErrInsufficientData) {
					s.cfg.Logger.Debug().Stringer("spec", model.Spec).Err(err).Msg("candidate rejected")
					return nil
				}
				return err
			}
			models[i] = model
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := make([]fitted, 0, len(cands))
	for i, model := range models {
		s.tried++
		if model == nil {
			continue
		}
		score := model.Criterion(string(s.cfg.Criterion))
		if math.IsNaN(score) {
			continue
		}
		s.cfg.Logger.Debug().
			Stringer("spec", model.Spec).
			Float64("criterion", score).
			Msg("candidate fitted")

		f := fitted{cand: cands[i], model: model, score: score}
		batch = append(batch, f)
		if s.cfg.Leaderboard > 0 {
			s.fitted = append(s.fitted, f)
		}
	}
	return batch, nil
}

func (s *search) spec(c candidate) arima.Spec {
	spec := arima.Spec{
		P: c.p, D: s.d, Q: c.q,
		Intercept: c.intercept,
	}
	if s.cfg.Seasonal {
		spec.SP = c.sp
		spec.SD = s.sd
		spec.SQ = c.sq
		spec.M = s.cfg.SeasonalM
	}
	return spec
}

// reduce picks the best-scoring candidate from the batch against the
// incumbent. Scores within criterionTol are tied and resolved toward
// the smaller total order, then the smaller p.
func (s *search) reduce(batch []fitted, incumbent *fitted) *fitted {
	best := incumbent
	for i := range batch {
		if best == nil || better(&batch[i], best) {
			best = &batch[i]
		}
	}
	return best
}

func better(a, b *fitted) bool {
	if a.score < b.score-criterionTol {
		return true
	}
	if a.score > b.score+criterionTol {
		return false
	}
	ao, bo := a.model.Spec.TotalOrder(), b.model.Spec.TotalOrder()
	if ao != bo {
		return ao < bo
	}
	return a.model.Spec.P < b.model.Spec.P
}

// leaderboard returns the top-N fitted models, winner first.
func (s *search) leaderboard() []*arima.Model {
	ranked := make([]fitted, len(s.fitted))
	copy(ranked, s.fitted)
	sort.SliceStable(ranked, func(i, j int) bool {
		return better(&ranked[i], &ranked[j])
	})

	n := s.cfg.Leaderboard
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]*arima.Model, 0, n)
	for _, f := range ranked[:n] {
		out = append(out, f.model)
	}
	return out
}
