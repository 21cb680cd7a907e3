package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/varalys/ghostmark/internal/cache"
	"github.com/varalys/ghostmark/internal/config"
	"github.com/varalys/ghostmark/internal/git"
	"github.com/varalys/ghostmark/internal/ignore"
	"github.com/varalys/ghostmark/internal/invisible"
	"github.com/varalys/ghostmark/internal/logging"
	"github.com/varalys/ghostmark/internal/rewrite"
	"github.com/varalys/ghostmark/internal/types"
	"golang.org/x/sync/errgroup"
)

// Document is one named piece of text handed to Inspect. Name is used only
// for the excluded-suffix gate.
type Document struct {
	Name string
	Text string
}

// Inspect is the host-facing gate around invisible.Detect. It yields nothing
// when inspection is disabled or the document name ends with an excluded
// suffix.
func Inspect(doc Document, opts config.Options) []invisible.Match {
	if !opts.Enabled || opts.Excludes(doc.Name) {
		return nil
	}
	return invisible.Detect(doc.Text)
}

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Root            string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	DefaultExcludes bool
	NoCache         bool
	Options         config.Options

	// Revision scans a git revision from the object store instead of the
	// working tree. The cache is not consulted in this mode.
	Revision string

	Progress func()
	Logger   *slog.Logger
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logging.Discard()
}

func (cfg Config) threads() int {
	if cfg.Threads > 0 {
		return cfg.Threads
	}
	return runtime.GOMAXPROCS(0)
}

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	// FilesSkipped counts files passed over by the cache or an excluded suffix.
	FilesSkipped int
	Duration     time.Duration
	// Disabled is set when the enabled gate was off and nothing was read.
	Disabled bool
}

// Scan runs a scan and returns only findings (without stats).
func Scan(ctx context.Context, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

type job struct {
	path string
	data []byte
	hash string
}

// ScanWithStats runs a scan and returns findings along with timing and counts.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}
	log := cfg.logger()
	if !cfg.Options.Enabled {
		log.Info("inspection disabled, skipping scan", "root", cfg.Root)
		result.Disabled = true
		return result, nil
	}

	useCache := !cfg.NoCache && cfg.Revision == ""
	db := cache.DB{Entries: map[string]string{}}
	if useCache {
		var err error
		if db, err = cache.Load(cfg.Root); err != nil {
			log.Debug("cache unavailable, scanning everything", "err", err)
		}
	}
	ign, err := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("could not read ignore file", "path", ignore.FileName, "err", err)
	}

	started := time.Now()
	var (
		mu       sync.Mutex
		out      []types.Finding
		clean    = map[string]string{}
		dirty    = map[string]bool{}
		formatFn = cfg.Options.Formatter()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.threads())

	submit := func(j job) {
		if cfg.Options.Excludes(j.path) {
			mu.Lock()
			result.FilesSkipped++
			mu.Unlock()
			log.Debug("excluded by suffix", "path", j.path)
			return
		}
		if useCache && j.hash != "" && db.Entries[j.path] == j.hash {
			mu.Lock()
			result.FilesSkipped++
			mu.Unlock()
			return
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text := string(j.data)
			matches := invisible.Detect(text)
			var fs []types.Finding
			if len(matches) > 0 {
				fs = BuildFindings(j.path, text, matches, formatFn)
			}
			mu.Lock()
			defer mu.Unlock()
			result.FilesScanned++
			out = append(out, fs...)
			if len(matches) == 0 {
				clean[j.path] = j.hash
			} else {
				dirty[j.path] = true
				log.Debug("invisible characters found", "path", j.path, "count", len(matches))
			}
			if cfg.Progress != nil {
				cfg.Progress()
			}
			return nil
		})
	}

	var walkErr error
	if cfg.Revision != "" {
		walkErr = revisionJobs(cfg, ign, submit)
	} else {
		walkErr = Walk(gctx, cfg, ign, func(p string, data []byte) {
			submit(job{path: p, data: data, hash: fastHash(data)})
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	if walkErr != nil {
		return result, walkErr
	}

	sortFindings(out)
	result.Findings = out
	result.Duration = time.Since(started)
	log.Debug("scan complete", "scanned", result.FilesScanned, "skipped", result.FilesSkipped, "findings", len(out), "duration", result.Duration)

	if useCache && (len(clean) > 0 || len(dirty) > 0) {
		for k, v := range clean {
			db.Entries[k] = v
		}
		for k := range dirty {
			delete(db.Entries, k)
		}
		if err := cache.Save(cfg.Root, db); err != nil {
			log.Warn("could not save cache", "err", err)
		}
	}
	return result, nil
}

func revisionJobs(cfg Config, ign ignore.Matcher, submit func(job)) error {
	files, err := git.FilesAt(cfg.Root, cfg.Revision, cfg.MaxBytes)
	if err != nil {
		return fmt.Errorf("read revision %s: %w", cfg.Revision, err)
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		data := files[p]
		if !eligible(p, cfg, ign) || !scannable(p, data) {
			continue
		}
		submit(job{path: p, data: data})
	}
	return nil
}

func sortFindings(fs []types.Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].Path != fs[j].Path {
			return fs[i].Path < fs[j].Path
		}
		return fs[i].Offset < fs[j].Offset
	})
}

// CleanFiles rewrites each path in place, replacing invisible code points
// with markers chosen by cfg.Options. Relative paths resolve against
// cfg.Root. Files with an excluded suffix are left alone.
func CleanFiles(ctx context.Context, cfg Config, paths []string) ([]rewrite.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := cfg.logger()
	if !cfg.Options.Enabled {
		log.Info("inspection disabled, nothing cleaned")
		return nil, nil
	}
	f := cfg.Options.Formatter()
	var outcomes []rewrite.Outcome
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		if cfg.Options.Excludes(p) {
			log.Debug("excluded by suffix", "path", p)
			continue
		}
		full := p
		if !filepath.IsAbs(full) && cfg.Root != "" {
			full = filepath.Join(cfg.Root, p)
		}
		o, err := rewrite.Apply(full, f)
		if err != nil {
			return outcomes, fmt.Errorf("clean %s: %w", p, err)
		}
		o.Path = p
		if o.Changed {
			log.Info("cleaned", "path", p, "replaced", o.Stats.Replaced)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func fastHash(b []byte) string {
	return strconv.FormatUint(xxhash.Sum64(b), 16)
}
