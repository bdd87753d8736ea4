// internal/routing/engine.go
package routing

import (
	"context"
	"fmt"

	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/common/metrics"
	"freeflow-backend/internal/models"
)

// Engine routes one order to exactly one business. It is stateless: each call
// works only on request-scoped inputs, so concurrent invocations for
// independent orders are safe without locking. A routing decision is advisory
// and read-only; it never reserves the chosen business.
type Engine struct {
	gateway Gateway
	logger  logger.Logger
}

func NewEngine(gateway Gateway, log logger.Logger) *Engine {
	return &Engine{
		gateway: gateway,
		logger:  log.WithFields(map[string]interface{}{"component": "routing-engine"}),
	}
}

// Route evaluates the fallback tiers in strict order and stops at the first
// that yields a candidate:
//
//  1. location_based: category resolved and location present, nearest
//     category candidate by haversine distance
//  2. fallback_available: category resolved, no distance ranking, earliest
//     candidate in the gateway's stable order
//  3. fallback_any_active: no category match, any active and verified business
//  4. no_match: nothing eligible anywhere
//
// A gateway failure inside a tier counts as zero candidates for that tier and
// the chain continues; only a failure at the terminal tier annotates the
// result, so callers can tell a store outage from a genuinely empty store.
// Structurally valid orders are never rejected.
func (e *Engine) Route(ctx context.Context, order models.Order) models.RoutingResult {
	categoryID := e.resolveCategory(ctx, order)

	location := order.CustomerLocation
	if location != nil && !location.Valid() {
		e.logger.Warn("ignoring out-of-range customer location", map[string]interface{}{
			"lat": location.Lat,
			"lng": location.Lng,
		})
		location = nil
	}

	var (
		categoryCandidates []models.Business
		categoryFetched    bool
	)

	// Tier 1: location-based
	if categoryID != "" && location != nil {
		candidates, err := e.listCandidates(ctx, categoryID)
		if err == nil {
			categoryCandidates = candidates
			categoryFetched = true
		}
		if len(candidates) > 0 {
			ranked := RankByDistance(*location, candidates)
			nearest := ranked[0]
			return e.decide(models.RoutingResult{
				BusinessID: nearest.Business.ID,
				Reason:     models.ReasonLocationBased,
				DistanceKm: &nearest.DistanceKm,
			})
		}
	}

	// Tier 2: category match without distance ranking. Reuses the tier 1
	// result when that query succeeded; a fresh query after a tier 1 failure
	// gives transient store errors a second chance.
	if categoryID != "" {
		candidates := categoryCandidates
		if !categoryFetched {
			fetched, err := e.listCandidates(ctx, categoryID)
			if err == nil {
				candidates = fetched
			}
		}
		if len(candidates) > 0 {
			chosen := candidates[0]
			result := models.RoutingResult{
				BusinessID: chosen.ID,
				Reason:     models.ReasonFallbackAvailable,
			}
			// Informational only: the choice ignores distance at this tier.
			if location != nil {
				d := haversineKm(location.Lat, location.Lng, chosen.Latitude, chosen.Longitude)
				result.DistanceKm = &d
			}
			return e.decide(result)
		}
	}

	// Tier 3: any active and verified business
	candidates, err := e.listCandidates(ctx, "")
	if len(candidates) > 0 {
		return e.decide(models.RoutingResult{
			BusinessID: candidates[0].ID,
			Reason:     models.ReasonFallbackAnyActive,
		})
	}

	// Tier 4: nothing eligible
	result := models.RoutingResult{Reason: models.ReasonNoMatch}
	if err != nil {
		result.Detail = fmt.Sprintf("store unavailable: %v", err)
	}
	return e.decide(result)
}

// resolveCategory fetches reference categories and runs the lexical resolver.
// A category fetch failure resolves to unknown, which drops straight into the
// loosest tier.
func (e *Engine) resolveCategory(ctx context.Context, order models.Order) string {
	if len(order.Items) == 0 {
		return ""
	}

	categories, err := e.gateway.ListCategories(ctx)
	if err != nil {
		e.logger.Warn("category fetch failed, routing without category", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}

	return ResolveCategory(order.Items, categories)
}

// listCandidates queries one tier's candidates and re-applies the eligibility
// filter in case the store did not.
func (e *Engine) listCandidates(ctx context.Context, categoryID string) ([]models.Business, error) {
	businesses, err := e.gateway.ListActiveBusinesses(ctx, categoryID)
	if err != nil {
		e.logger.Warn("candidate query failed, treating tier as empty", map[string]interface{}{
			"categoryId": categoryID,
			"error":      err.Error(),
		})
		return nil, err
	}

	eligible := businesses[:0:0]
	for _, b := range businesses {
		if b.Eligible() {
			eligible = append(eligible, b)
		}
	}
	return eligible, nil
}

func (e *Engine) decide(result models.RoutingResult) models.RoutingResult {
	metrics.RoutingDecisions.WithLabelValues(string(result.Reason)).Inc()

	fields := map[string]interface{}{
		"reason":     string(result.Reason),
		"businessId": result.BusinessID,
	}
	if result.DistanceKm != nil {
		fields["distanceKm"] = *result.DistanceKm
	}
	if result.Detail != "" {
		fields["detail"] = result.Detail
	}
	e.logger.Info("routing decision", fields)

	return result
}
