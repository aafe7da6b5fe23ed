package scorer

import (
	"fmt"
	"slices"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// Recommendation is the top two distinct products for an answer set.
type Recommendation struct {
	Ideal  model.Product `json:"ideal"`
	Strong model.Product `json:"strong"`
}

// Ranked is a catalog product with its score.
type Ranked struct {
	Product model.Product `json:"product"`
	Score   int           `json:"score"`
}

// Rank orders the catalog by score, highest first. Equal scores keep catalog
// order.
func Rank(scores Scores, catalog []model.Product) []Ranked {
	ranked := make([]Ranked, len(catalog))
	for i, p := range catalog {
		ranked[i] = Ranked{Product: p, Score: scores[p.ID]}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Score - a.Score
	})
	return ranked
}

// Select picks the ideal fit (rank 0) and strong alternative (rank 1).
// It panics if the catalog has fewer than two products.
func Select(scores Scores, catalog []model.Product) Recommendation {
	if len(catalog) < 2 {
		panic(fmt.Sprintf("scorer: catalog needs at least 2 products, has %d", len(catalog)))
	}
	ranked := Rank(scores, catalog)
	return Recommendation{Ideal: ranked[0].Product, Strong: ranked[1].Product}
}

// Recommend scores answers against the catalog and selects the top two.
func Recommend(answers model.UserAnswers, catalog []model.Product) (Recommendation, Scores) {
	scores := Score(answers, catalog)
	return Select(scores, catalog), scores
}
