package chat

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/dharmasatrya/fleetdesk/internal/metrics"
	"github.com/dharmasatrya/fleetdesk/internal/models"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type IndexOptions struct {
	Splitter Splitter
	Workers  int
	Retry    RetryPolicy
	Logger   *zap.Logger
}

func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		Splitter: DefaultSplitter(),
		Workers:  4,
		Retry:    DefaultRetryPolicy(),
		Logger:   zap.NewNop(),
	}
}

// Index holds the embedded leg descriptions. It is empty until Rebuild
// succeeds and is replaced wholesale on every rebuild.
type Index struct {
	embedder Embedder
	opts     IndexOptions

	mu          sync.RWMutex
	docs        []string
	vectors     [][]float64
	fingerprint uint64
	built       bool
}

func NewIndex(embedder Embedder, opts IndexOptions) *Index {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Index{embedder: embedder, opts: opts}
}

// Fingerprint hashes the documents the legs would produce.
func Fingerprint(docs []string) uint64 {
	d := xxhash.New()
	for _, doc := range docs {
		_, _ = d.WriteString(doc)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Stale reports whether legs differ from what the index was built from.
func (ix *Index) Stale(legs []*models.FlightLeg) bool {
	fp := Fingerprint(Documents(legs, ix.opts.Splitter))
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return !ix.built || ix.fingerprint != fp
}

// Rebuild embeds every document derived from legs. Unchanged input is a no-op.
// On error the previous contents are kept.
func (ix *Index) Rebuild(ctx context.Context, legs []*models.FlightLeg) error {
	docs := Documents(legs, ix.opts.Splitter)
	fp := Fingerprint(docs)

	ix.mu.RLock()
	fresh := ix.built && ix.fingerprint == fp
	ix.mu.RUnlock()
	if fresh {
		return nil
	}

	vectors, err := ix.embedAll(ctx, docs)
	if err != nil {
		return err
	}

	ix.mu.Lock()
	ix.docs = docs
	ix.vectors = vectors
	ix.fingerprint = fp
	ix.built = true
	ix.mu.Unlock()

	metrics.IndexRebuilds.Inc()
	ix.opts.Logger.Info("chat index rebuilt", zap.Int("documents", len(docs)))
	return nil
}

func (ix *Index) embedAll(ctx context.Context, docs []string) ([][]float64, error) {
	vectors := make([][]float64, len(docs))
	if len(docs) == 0 {
		return vectors, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	errCh := make(chan error, ix.opts.Workers)
	var wg sync.WaitGroup

	for w := 0; w < ix.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				err := ix.opts.Retry.call(ctx, ix.opts.Logger, DownstreamEmbed, func(ctx context.Context) error {
					v, err := ix.embedder.Embed(ctx, docs[i])
					if err != nil {
						return err
					}
					vectors[i] = v
					return nil
				})
				if err != nil {
					errCh <- err
					cancel()
					return
				}
			}
		}()
	}

feed:
	for i := range docs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Search returns the k documents most similar to query. k <= 0 returns every
// document in index order without embedding the query.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]string, error) {
	ix.mu.RLock()
	docs := ix.docs
	vectors := ix.vectors
	ix.mu.RUnlock()

	if k <= 0 || len(docs) == 0 {
		return append([]string(nil), docs...), nil
	}

	var q []float64
	err := ix.opts.Retry.call(ctx, ix.opts.Logger, DownstreamEmbed, func(ctx context.Context) error {
		v, err := ix.embedder.Embed(ctx, query)
		q = v
		return err
	})
	if err != nil {
		return nil, err
	}

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(docs))
	for i, v := range vectors {
		ranked[i] = scored{pos: i, score: cosine(q, v)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, docs[r.pos])
	}
	return out, nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
