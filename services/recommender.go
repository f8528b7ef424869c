package services

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/paradise-cafe/ai"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/utils"
	"golang.org/x/sync/singleflight"
)

// suggestTimeout bounds a shared engine call, which outlives the request that started it.
const suggestTimeout = 30 * time.Second

// Recommendation is a menu item picked for a guest's craving.
type Recommendation struct {
	Item   models.MenuItem `json:"item"`
	Reason string          `json:"reason"`
}

// Recommender asks the engine for dishes matching a free-text query. It never fails: any engine
// error yields no recommendations.
type Recommender struct {
	engine ai.Engine
	group  singleflight.Group
}

func NewRecommender(engine ai.Engine) *Recommender {
	if engine == nil {
		engine = ai.Disabled{}
	}
	return &Recommender{engine: engine}
}

// Recommend returns suggestions in engine order, resolved against menu. Ids the menu does not
// contain are dropped.
func (r *Recommender) Recommend(ctx context.Context, query string, menu []models.MenuItem) []Recommendation {
	query = strings.TrimSpace(query)
	if query == "" || len(menu) == 0 {
		return []Recommendation{}
	}

	projection := make([]models.MenuProjection, len(menu))
	for i, item := range menu {
		projection[i] = item.Projection()
	}

	// identical queries in flight share one engine call; one caller leaving must not cancel it
	v, err, shared := r.group.Do(query, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), suggestTimeout)
		defer cancel()
		return r.engine.Suggest(callCtx, query, projection)
	})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("query", query).Warn("suggestion engine failed")
		return []Recommendation{}
	}
	if shared {
		utils.InfoLogger.WithField("query", query).Debug("suggestion shared with concurrent request")
	}
	suggestions, _ := v.([]ai.Suggestion)

	byID := make(map[string]models.MenuItem, len(menu))
	for _, item := range menu {
		byID[item.ID] = item
	}

	out := make([]Recommendation, 0, len(suggestions))
	for _, s := range suggestions {
		item, ok := byID[s.ItemID]
		if !ok {
			continue
		}
		out = append(out, Recommendation{Item: item, Reason: s.Reason})
	}
	return out
}
