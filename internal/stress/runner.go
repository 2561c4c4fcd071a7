package stress

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	randv2 "math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/id"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

const (
	ctxCheckInterval = 4096
	statsName        = "stress"
	runIDLength      = 12
)

var ErrRoundPanic = errors.New("[stress] round panicked")

type RoundReport struct {
	Round      int
	Inserted   int64
	Duplicates int64
	Erased     int64
	Remaining  int64
	Elapsed    time.Duration
}

type Report struct {
	// RunID tags every log line of one Run.
	RunID   string
	Rounds  []RoundReport
	Elapsed time.Duration
	// RSS is the resident set size after every round finished, 0 if unknown.
	RSS uint64
}

func (r *Report) Inserted() int64 {
	return lo.SumBy(r.Rounds, func(rr RoundReport) int64 { return rr.Inserted })
}

func (r *Report) Erased() int64 {
	return lo.SumBy(r.Rounds, func(rr RoundReport) int64 { return rr.Erased })
}

// Runner executes independent stress rounds on a goroutine pool. Each round
// owns its tree and arena, no tree is shared between goroutines.
type Runner struct {
	cfg    *Config
	logger xlog.XLogger
	pool   *ants.Pool
	nextID id.NanoIDGen
}

func NewRunner(cfg *Config, logger xlog.XLogger) (*Runner, error) {
	if cfg == nil {
		return nil, ErrInvalidRounds
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(
		cfg.Workers,
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
		ants.WithPanicHandler(func(p any) {
			logger.Error(fmt.Errorf("%v", p), "stress worker panic")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create stress pool: %w", err)
	}
	nextID, err := id.ClassicNanoID(runIDLength)
	if err != nil {
		pool.Release()
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.Named("stress"),
		pool:   pool,
		nextID: nextID,
	}, nil
}

func (r *Runner) Release() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Release()
}

// Run blocks until every round finished or ctx is done. Round failures are
// combined, the report still holds the successful rounds.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	runID := r.nextID()
	r.logger.Info("run started", zap.String("run", runID), zap.Int("rounds", r.cfg.Rounds))
	var (
		wg      sync.WaitGroup
		lock    sync.Mutex
		reports = make([]RoundReport, 0, r.cfg.Rounds)
		merr    error
	)
	for round := 0; round < r.cfg.Rounds; round++ {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			rr, err := r.safeRunRound(ctx, round)
			lock.Lock()
			defer lock.Unlock()
			if err != nil {
				merr = multierr.Append(merr, err)
				r.logger.Error(err, "round failed", zap.String("run", runID), zap.Int("round", round))
				return
			}
			reports = append(reports, rr)
			r.logger.Info("round done",
				zap.String("run", runID),
				zap.Int("round", rr.Round),
				zap.Int64("inserted", rr.Inserted),
				zap.Int64("duplicates", rr.Duplicates),
				zap.Int64("erased", rr.Erased),
				zap.Duration("elapsed", rr.Elapsed),
			)
		})
		if err != nil {
			wg.Done()
			lock.Lock()
			merr = multierr.Append(merr, fmt.Errorf("submit round %d: %w", round, err))
			lock.Unlock()
		}
	}
	wg.Wait()

	slices.SortFunc(reports, func(a, b RoundReport) int {
		return cmp.Compare(a.Round, b.Round)
	})
	report := &Report{
		RunID:   runID,
		Rounds:  reports,
		Elapsed: time.Since(start),
	}
	if rss, err := observability.ProcessRSS(ctx); err == nil {
		report.RSS = rss
	}
	return report, merr
}

func (r *Runner) safeRunRound(ctx context.Context, round int) (rr RoundReport, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("round %d: %v: %w", round, p, ErrRoundPanic)
		}
	}()
	return RunRound(ctx, round, r.cfg, r.logger.Zap())
}

// RunRound inserts cfg.Inserts random keys within [0, cfg.KeyBound) as unique
// keys, erases cfg.EraseRatio of the distinct keys in random order and drains
// the rest, validating the tree after each phase.
func RunRound(ctx context.Context, round int, cfg *Config, logger *zap.Logger) (RoundReport, error) {
	start := time.Now()
	rr := RoundReport{Round: round}
	rng := randv2.New(randv2.NewPCG(cfg.Seed, uint64(round)))
	t := tree.NewOrderedSetTree[int](
		tree.WithRBTreeArenaLimit[int, int](cfg.ArenaLimit),
		tree.WithRBTreeLogger[int, int](logger),
		tree.WithRBTreeStats[int, int](statsName),
	)
	defer t.Clear()

	for i := 0; i < cfg.Inserts; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return rr, fmt.Errorf("round %d insert: %w", round, err)
			}
		}
		_, ok, err := t.InsertUnique(rng.IntN(cfg.KeyBound))
		if err != nil {
			return rr, fmt.Errorf("round %d insert: %w", round, err)
		}
		if ok {
			rr.Inserted++
		} else {
			rr.Duplicates++
		}
	}
	if err := tree.Validate(t); err != nil {
		return rr, fmt.Errorf("round %d after insert: %w", round, err)
	}
	if t.Len() != rr.Inserted {
		return rr, fmt.Errorf("round %d len %d, inserted %d: %w", round, t.Len(), rr.Inserted, tree.ErrRBTreeSizeMismatch)
	}

	keys := make([]int, 0, t.Len())
	t.Foreach(func(idx int64, color tree.RBColor, key int) bool {
		keys = append(keys, key)
		return true
	})
	rng.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	victims := lo.Subset(keys, 0, uint(float64(len(keys))*cfg.EraseRatio))
	for i, key := range victims {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return rr, fmt.Errorf("round %d erase: %w", round, err)
			}
		}
		rr.Erased += t.EraseKey(key)
	}
	if err := tree.Validate(t); err != nil {
		return rr, fmt.Errorf("round %d after erase: %w", round, err)
	}
	rr.Remaining = t.Len()
	if rr.Remaining != rr.Inserted-rr.Erased {
		return rr, fmt.Errorf("round %d remaining %d, expected %d: %w",
			round, rr.Remaining, rr.Inserted-rr.Erased, tree.ErrRBTreeSizeMismatch)
	}

	// Drain in order through iterators.
	for it := t.Begin(); !it.IsEnd(); {
		it = t.Erase(it)
	}
	if err := tree.Validate(t); err != nil {
		return rr, fmt.Errorf("round %d after drain: %w", round, err)
	}
	rr.Elapsed = time.Since(start)
	return rr, nil
}
