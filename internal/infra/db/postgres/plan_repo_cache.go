package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
	"academy-platform/internal/infra/metrics"
	red "academy-platform/internal/infra/redis"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator is a redis read-through cache in front of the plan
// repo. Plans change rarely and are read on every enrollment and billing run.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, cache red.RedisClient) repository.PlanRepository {
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func planKey(id string) string { return fmt.Sprintf("plan:%s", id) }

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	// Inside a transaction the cache is bypassed to keep reads consistent.
	if tx != repository.NoTX {
		return d.inner.FindByID(ctx, tx, id)
	}

	val, err := d.cache.Get(ctx, planKey(id))
	if err == nil {
		var plan model.Plan
		if json.Unmarshal([]byte(val), &plan) == nil {
			metrics.IncCacheRequest("plan", "hit")
			return &plan, nil
		}
	} else if err != goredis.Nil {
		// Redis being down degrades to plain DB reads.
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(plan); err == nil {
		_ = d.cache.Set(ctx, planKey(id), bytes, d.ttl)
	}
	return plan, nil
}

func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if err := d.inner.Save(ctx, tx, plan); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, planKey(plan.ID))
	return nil
}

func (d *planRepoCacheDecorator) ListActive(ctx context.Context, tx repository.Tx, orgID string) ([]*model.Plan, error) {
	return d.inner.ListActive(ctx, tx, orgID)
}

func (d *planRepoCacheDecorator) Deactivate(ctx context.Context, tx repository.Tx, id string) error {
	if err := d.inner.Deactivate(ctx, tx, id); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, planKey(id))
	return nil
}
