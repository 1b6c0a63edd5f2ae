package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/internal/repository"
	"earnings-service/src/pkg/log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// RuleSource feeds the ledger core with active rules and programs. The
// production implementation is RuleStore; tests supply fakes.
type RuleSource interface {
	LoadActiveRules(ctx context.Context) ([]entity.EarningRule, error)
	LoadActivePrograms(ctx context.Context) ([]entity.BonusProgram, error)
	Invalidate(ctx context.Context) error
}

const (
	ruleCacheKey    = "EARNINGS:RULES:ACTIVE"
	programCacheKey = "EARNINGS:PROGRAMS:ACTIVE"

	defaultRuleCacheTTL = 5 * time.Minute
)

// RuleStore is a read-through cache over the rule repository. Entries are
// safely stale for up to one TTL window; admin writes call Invalidate
// synchronously so edits propagate without waiting out the TTL.
type RuleStore struct {
	Log   log.Log
	Redis redis.UniversalClient
	Rules repository.RuleDataStore
	TTL   time.Duration
}

func NewRuleStore(logger log.Log, redisClient redis.UniversalClient, rules repository.RuleDataStore, cfg *viper.Viper) *RuleStore {
	ttl := defaultRuleCacheTTL
	if cfg != nil {
		if minutes := cfg.GetInt("earnings.rule_cache_ttl_minutes"); minutes > 0 {
			ttl = time.Duration(minutes) * time.Minute
		}
	}
	return &RuleStore{
		Log:   logger,
		Redis: redisClient,
		Rules: rules,
		TTL:   ttl,
	}
}

func (s *RuleStore) LoadActiveRules(ctx context.Context) ([]entity.EarningRule, error) {
	var rules []entity.EarningRule
	if s.cacheGet(ctx, ruleCacheKey, &rules) {
		return rules, nil
	}

	rules, err := s.Rules.ListActiveRules(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("load active rules: %w", err)
	}

	s.cacheSet(ctx, ruleCacheKey, rules)
	return rules, nil
}

func (s *RuleStore) LoadActivePrograms(ctx context.Context) ([]entity.BonusProgram, error) {
	var programs []entity.BonusProgram
	if s.cacheGet(ctx, programCacheKey, &programs) {
		return programs, nil
	}

	programs, err := s.Rules.ListActivePrograms(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("load active programs: %w", err)
	}

	s.cacheSet(ctx, programCacheKey, programs)
	return programs, nil
}

// Invalidate clears both caches. Called synchronously by every admin write
// path so changes become visible without a restart.
func (s *RuleStore) Invalidate(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	if err := s.Redis.Del(ctx, ruleCacheKey, programCacheKey).Err(); err != nil {
		s.Log.Error("rule-store", fmt.Sprintf("failed to invalidate rule cache: %v", err), "Invalidate", "")
		return err
	}
	return nil
}

// cacheGet reports whether dest was populated from cache. Redis failures are
// logged and treated as a miss so the durable store stays authoritative.
func (s *RuleStore) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.Redis == nil {
		return false
	}
	data, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.Log.Error("rule-store", fmt.Sprintf("redis get failed: %v", err), "cacheGet", key)
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		s.Log.Error("rule-store", fmt.Sprintf("corrupt cache entry: %v", err), "cacheGet", key)
		return false
	}
	return true
}

func (s *RuleStore) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.Log.Error("rule-store", fmt.Sprintf("failed to marshal cache entry: %v", err), "cacheSet", key)
		return
	}
	if err := s.Redis.Set(ctx, key, data, s.TTL).Err(); err != nil {
		s.Log.Error("rule-store", fmt.Sprintf("redis set failed: %v", err), "cacheSet", key)
	}
}
