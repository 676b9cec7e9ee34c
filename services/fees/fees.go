package fees

import (
	"math/big"
	"sync"

	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils"
)

// Operation is a fee-bearing factory operation
type Operation string

const (
	TokenDeploy      Operation = "token_deploy"
	TokenMint        Operation = "token_mint"
	CollectionDeploy Operation = "collection_deploy"
	CollectionMint   Operation = "collection_mint"
)

// Tier is a fee bracket
type Tier string

const (
	Small  Tier = "small"
	Medium Tier = "medium"
	Large  Tier = "large"
)

type thresholds struct {
	medium *big.Int
	large  *big.Int
}

// Token mints reuse the supply thresholds of token deploys.
var tierThresholds = map[Operation]thresholds{
	TokenDeploy:      {medium: big.NewInt(1000), large: big.NewInt(10000)},
	TokenMint:        {medium: big.NewInt(1000), large: big.NewInt(10000)},
	CollectionDeploy: {medium: big.NewInt(50), large: big.NewInt(200)},
	CollectionMint:   {medium: big.NewInt(50), large: big.NewInt(200)},
}

// Kind returns the factory that charges the operation
func (op Operation) Kind() types.FactoryKind {
	if op == CollectionDeploy || op == CollectionMint {
		return types.NonFungibleFactory
	}
	return types.FungibleFactory
}

// Valid reports whether op is a known operation
func (op Operation) Valid() bool {
	_, ok := tierThresholds[op]
	return ok
}

// TierFor returns the tier of a positive quantity
func TierFor(op Operation, quantity *big.Int) (Tier, error) {
	t, ok := tierThresholds[op]
	if !ok {
		return "", types.NewValidationError("operation", "unknown operation "+string(op))
	}
	if quantity == nil || quantity.Sign() <= 0 {
		return "", types.ErrInvalidQuantity.WithDetail("quantity must be a positive integer")
	}

	switch {
	case quantity.Cmp(t.medium) < 0:
		return Small, nil
	case quantity.Cmp(t.large) < 0:
		return Medium, nil
	default:
		return Large, nil
	}
}

// Pick returns the fee of the given tier
func Pick(schedule types.FeeSchedule, tier Tier) *big.Int {
	var fee *big.Int
	switch tier {
	case Small:
		fee = schedule.Small
	case Medium:
		fee = schedule.Medium
	case Large:
		fee = schedule.Large
	}
	if fee == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(fee)
}

type scheduleKey struct {
	chainID string
	kind    types.FactoryKind
}

// Resolver computes the fee owed for an operation from the last loaded schedule of each factory
type Resolver struct {
	mu        sync.RWMutex
	schedules map[scheduleKey]types.FeeSchedule
}

// NewResolver creates an empty resolver
func NewResolver() *Resolver {
	return &Resolver{schedules: make(map[scheduleKey]types.FeeSchedule)}
}

// Store replaces the schedule of a factory
func (r *Resolver) Store(chainID string, kind types.FactoryKind, schedule types.FeeSchedule) {
	copied := types.FeeSchedule{
		Small:  copyInt(schedule.Small),
		Medium: copyInt(schedule.Medium),
		Large:  copyInt(schedule.Large),
	}

	r.mu.Lock()
	r.schedules[scheduleKey{chainID, kind}] = copied
	r.mu.Unlock()
}

// Schedule returns the stored schedule of a factory
func (r *Resolver) Schedule(chainID string, kind types.FactoryKind) (types.FeeSchedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schedules[scheduleKey{chainID, kind}]
	return s, ok
}

// Forget drops every schedule stored for a chain
func (r *Resolver) Forget(chainID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.schedules {
		if key.chainID == chainID {
			delete(r.schedules, key)
		}
	}
}

// Resolve parses a user-entered quantity and returns the fee in wei
func (r *Resolver) Resolve(op Operation, chainID string, quantity string) (*big.Int, error) {
	q, ok := utils.ParseQuantity(quantity)
	if !ok {
		return nil, types.ErrInvalidQuantity.WithDetail("%q is not an integer", quantity)
	}
	return r.ResolveAmount(op, chainID, q)
}

// ResolveAmount returns the fee in wei for a quantity
func (r *Resolver) ResolveAmount(op Operation, chainID string, quantity *big.Int) (*big.Int, error) {
	_, fee, err := r.Quote(op, chainID, quantity)
	return fee, err
}

// Quote returns both the tier and the fee in wei for a quantity
func (r *Resolver) Quote(op Operation, chainID string, quantity *big.Int) (Tier, *big.Int, error) {
	tier, err := TierFor(op, quantity)
	if err != nil {
		return "", nil, err
	}

	schedule, ok := r.Schedule(chainID, op.Kind())
	if !ok {
		return "", nil, types.ErrFeeScheduleUnavailable.WithDetail("no %s fee schedule loaded for %s", op.Kind(), chainID)
	}

	return tier, Pick(schedule, tier), nil
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
