package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
)

// Store is the slice of the record store the recommender needs: it only
// asks whether a candidate is already persisted.
type Store interface {
	FindByIdentity(ctx context.Context, url, fingerprint string) (*article.Article, error)
}

// Recommender ranks candidate articles by historical tag affinity with
// exponential time decay, and reserves an epsilon fraction of the output
// for random exploration of topics the history has never touched. Pure
// score-maximization would only ever feed back previously-liked tags; the
// explore slice breaks that loop.
type Recommender struct {
	store     Store
	epsilon   float64
	decayRate float64
	rng       *rand.Rand
	now       func() time.Time
}

// New builds a recommender. Epsilon outside [0, 1] is clamped; 1 means
// the whole output is exploration.
func New(store Store, epsilon, decayRate float64) *Recommender {
	if epsilon < 0 {
		epsilon = 0
	}
	if epsilon > 1 {
		epsilon = 1
	}
	return &Recommender{
		store:     store,
		epsilon:   epsilon,
		decayRate: decayRate,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// Run scores candidates against the reading history and returns at most
// limit recommendations: the top floor(limit*(1-epsilon)) by score, topped
// up with a random sample of history-untouched candidates.
func (r *Recommender) Run(ctx context.Context, history, candidates []article.Article, limit int) ([]article.Scored, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	weights := tagWeights(history)

	fresh, err := r.excludeStored(ctx, candidates)
	if err != nil {
		return nil, err
	}

	scored := make([]article.Scored, 0, len(fresh))
	for _, a := range fresh {
		scored = append(scored, r.score(a, weights))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	exploitSize := int(math.Floor(float64(limit) * (1 - r.epsilon)))
	exploitSize = min(exploitSize, len(scored))
	exploit := scored[:exploitSize]

	explore := r.sampleExplore(scored[exploitSize:], weights, limit-exploitSize)

	out := append(exploit, explore...)
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// tagWeights builds the tag affinity map: every read article with a
// non-zero rating contributes its rating to each of its tags.
func tagWeights(history []article.Article) map[string]float64 {
	weights := make(map[string]float64)

	for _, a := range history {
		if a.Status != article.StatusRead || a.Rating == 0 {
			continue
		}
		for _, tag := range a.Tags {
			weights[tag] += a.Rating
		}
	}

	return weights
}

// excludeStored drops candidates whose fingerprint already exists in the
// record store, so nothing already seen gets re-recommended.
func (r *Recommender) excludeStored(ctx context.Context, candidates []article.Article) ([]article.Article, error) {
	fresh := make([]article.Article, 0, len(candidates))

	for _, a := range candidates {
		existing, err := r.store.FindByIdentity(ctx, a.URL, a.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("failed to check stored articles: %w", err)
		}
		if existing != nil {
			continue
		}
		fresh = append(fresh, a)
	}

	return fresh, nil
}

func (r *Recommender) score(a article.Article, weights map[string]float64) article.Scored {
	if a.PublishedAt == nil {
		return article.Scored{Article: a, Score: 0, Reason: "score unavailable"}
	}

	ageDays := r.now().Sub(*a.PublishedAt).Hours() / 24
	decay := math.Exp(-r.decayRate * ageDays)

	var tagScore float64
	for _, tag := range a.Tags {
		tagScore += weights[tag]
	}

	var score float64
	var reason string
	if tagScore > 0 {
		score = tagScore * decay
		reason = fmt.Sprintf("tag affinity %.2f", tagScore)
	} else {
		// Pure-novelty fallback so unmatched articles are not scored zero.
		score = decay
		reason = fmt.Sprintf("novelty %.2f", decay)
	}

	if math.IsNaN(score) || score < 0 {
		return article.Scored{Article: a, Score: 0, Reason: "score unavailable"}
	}

	return article.Scored{Article: a, Score: score, Reason: reason}
}

// sampleExplore picks up to n candidates untouched by history (zero
// rating-derived tag weight) at random, without replacement.
func (r *Recommender) sampleExplore(rest []article.Scored, weights map[string]float64, n int) []article.Scored {
	if n <= 0 {
		return nil
	}

	pool := make([]article.Scored, 0, len(rest))
	for _, s := range rest {
		if historyWeight(s.Tags, weights) == 0 {
			s.Reason = "exploration pick"
			pool = append(pool, s)
		}
	}

	r.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if len(pool) > n {
		pool = pool[:n]
	}

	return pool
}

func historyWeight(tags []string, weights map[string]float64) float64 {
	var total float64
	for _, tag := range tags {
		total += weights[tag]
	}
	return total
}
