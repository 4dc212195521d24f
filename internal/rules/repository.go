package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cleared-dev/bankflow/internal/id"
	"github.com/cleared-dev/bankflow/internal/logger"
	"github.com/cleared-dev/bankflow/internal/model"
	"github.com/cleared-dev/bankflow/internal/store"
)

// StoreKey is the key the rule list is persisted under.
const StoreKey = "custom_rules"

// ErrRuleNotFound is returned when no rule has the requested id.
var ErrRuleNotFound = errors.New("rule not found")

// Repository loads and saves the custom rule list through a store.Store.
type Repository struct {
	store store.Store

	mu  sync.Mutex
	now func() time.Time
}

// NewRepository returns a Repository over s.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// List returns every persisted rule in stored order. A missing key or
// malformed JSON yields an empty list; the latter is logged.
func (r *Repository) List(ctx context.Context) ([]model.CustomRule, error) {
	data, err := r.store.Get(ctx, StoreKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	var rules []model.CustomRule
	if err := json.Unmarshal(data, &rules); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("key", StoreKey).Msg("ignoring malformed rule data")
		return nil, nil
	}
	return rules, nil
}

// Enabled returns the enabled rules in execution order.
func (r *Repository) Enabled(ctx context.Context) ([]model.CustomRule, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return Active(all), nil
}

// Get returns the rule with the given id.
func (r *Repository) Get(ctx context.Context, ruleID string) (model.CustomRule, error) {
	all, err := r.List(ctx)
	if err != nil {
		return model.CustomRule{}, err
	}
	for _, rule := range all {
		if rule.ID == ruleID {
			return rule, nil
		}
	}
	return model.CustomRule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
}

// Add validates rule, assigns it an id and timestamps, and appends it.
func (r *Repository) Add(ctx context.Context, rule model.CustomRule) (model.CustomRule, error) {
	if err := Check(rule); err != nil {
		return model.CustomRule{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.List(ctx)
	if err != nil {
		return model.CustomRule{}, err
	}
	now := r.now().UTC()
	rule.ID = id.NewRuleID()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if rule.ConditionLogic == "" {
		rule.ConditionLogic = model.LogicAll
	}
	all = append(all, rule)
	if err := r.save(ctx, all); err != nil {
		return model.CustomRule{}, err
	}
	return rule, nil
}

// Update replaces the rule with the same id, keeping its creation time.
func (r *Repository) Update(ctx context.Context, rule model.CustomRule) (model.CustomRule, error) {
	if err := Check(rule); err != nil {
		return model.CustomRule{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.List(ctx)
	if err != nil {
		return model.CustomRule{}, err
	}
	for i := range all {
		if all[i].ID != rule.ID {
			continue
		}
		rule.CreatedAt = all[i].CreatedAt
		rule.UpdatedAt = r.now().UTC()
		all[i] = rule
		if err := r.save(ctx, all); err != nil {
			return model.CustomRule{}, err
		}
		return rule, nil
	}
	return model.CustomRule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, rule.ID)
}

// Delete removes the rule with the given id.
func (r *Repository) Delete(ctx context.Context, ruleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == ruleID {
			all = append(all[:i], all[i+1:]...)
			return r.save(ctx, all)
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
}

func (r *Repository) save(ctx context.Context, rules []model.CustomRule) error {
	if rules == nil {
		rules = []model.CustomRule{}
	}
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	if err := r.store.Put(ctx, StoreKey, data); err != nil {
		return fmt.Errorf("saving rules: %w", err)
	}
	return nil
}
