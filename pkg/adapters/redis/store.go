package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/eos/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.CheckpointStore using Redis.
//
// Each chain owns a hash holding its latest checkpoint and a sorted set
// tracing the log density at every saved step. A shared sorted set ranks
// chains by the log density of their latest checkpoint.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL expires a chain's checkpoint and trace ttl after its last save.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the namespace of every key the store writes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to the redis server at address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "eos:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// TracePoint is the log density of a chain at one saved step.
type TracePoint struct {
	Step       int
	LogDensity float64
}

// record is the hash layout of a checkpoint.
type record struct {
	Step       int     `redis:"step"`
	Accepted   int     `redis:"accepted"`
	LogDensity float64 `redis:"log_density"`
	CreatedAt  string  `redis:"created_at"`
	Point      string  `redis:"point"`
}

type point struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

func (s *Store) chainKey(chainID string) string { return s.prefix + "chain:" + chainID }
func (s *Store) traceKey(chainID string) string { return s.prefix + "trace:" + chainID }
func (s *Store) rankKey() string                { return s.prefix + "rank" }

// Save replaces the chain's checkpoint, ranks the chain by its log density
// and appends the step to the chain's trace.
func (s *Store) Save(ctx context.Context, cp *domain.Checkpoint) error {
	pt, err := json.Marshal(point{Names: cp.Names, Values: cp.Values})
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint point: %w", err)
	}
	rec := record{
		Step:       cp.Step,
		Accepted:   cp.Accepted,
		LogDensity: cp.LogDensity,
		CreatedAt:  cp.CreatedAt.Format(time.RFC3339Nano),
		Point:      string(pt),
	}

	chain, trace := s.chainKey(cp.ChainID), s.traceKey(cp.ChainID)
	step := float64(cp.Step)

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, chain)
		pipe.HSet(ctx, chain, rec)
		pipe.ZAdd(ctx, s.rankKey(), backend.Z{Score: cp.LogDensity, Member: cp.ChainID})

		// A step saved twice keeps only its latest density.
		stepArg := strconv.Itoa(cp.Step)
		pipe.ZRemRangeByScore(ctx, trace, stepArg, stepArg)
		pipe.ZAdd(ctx, trace, backend.Z{Score: step, Member: traceMember(cp.Step, cp.LogDensity)})

		if s.ttl > 0 {
			pipe.Expire(ctx, chain, s.ttl)
			pipe.Expire(ctx, trace, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint of chain %s: %w", cp.ChainID, err)
	}
	return nil
}

// Load retrieves the latest checkpoint of a chain.
func (s *Store) Load(ctx context.Context, chainID string) (*domain.Checkpoint, error) {
	res := s.client.HGetAll(ctx, s.chainKey(chainID))
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("failed to load checkpoint of chain %s: %w", chainID, err)
	}
	if len(res.Val()) == 0 {
		return nil, domain.ErrCheckpointNotFound
	}

	var rec record
	if err := res.Scan(&rec); err != nil {
		return nil, fmt.Errorf("corrupt checkpoint of chain %s: %w", chainID, err)
	}
	var pt point
	if err := json.Unmarshal([]byte(rec.Point), &pt); err != nil {
		return nil, fmt.Errorf("corrupt checkpoint point of chain %s: %w", chainID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt checkpoint time of chain %s: %w", chainID, err)
	}

	return &domain.Checkpoint{
		ChainID:    chainID,
		Step:       rec.Step,
		Names:      pt.Names,
		Values:     pt.Values,
		LogDensity: rec.LogDensity,
		Accepted:   rec.Accepted,
		CreatedAt:  created,
	}, nil
}

// Delete removes the checkpoint and the trace of a chain.
func (s *Store) Delete(ctx context.Context, chainID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.chainKey(chainID), s.traceKey(chainID))
		pipe.ZRem(ctx, s.rankKey(), chainID)
		return nil
	})
	return err
}

// List returns the chains with a live checkpoint, best log density first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ranked, err := s.client.ZRevRange(ctx, s.rankKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	return s.live(ctx, ranked)
}

// Best returns the chain whose latest checkpoint has the highest log density.
func (s *Store) Best(ctx context.Context) (*domain.Checkpoint, error) {
	chains, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(chains) == 0 {
		return nil, domain.ErrCheckpointNotFound
	}
	return s.Load(ctx, chains[0])
}

// Trace returns the log density of a chain at every saved step, in step order.
func (s *Store) Trace(ctx context.Context, chainID string) ([]TracePoint, error) {
	members, err := s.client.ZRange(ctx, s.traceKey(chainID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trace of chain %s: %w", chainID, err)
	}
	if len(members) == 0 {
		return nil, domain.ErrCheckpointNotFound
	}

	trace := make([]TracePoint, 0, len(members))
	for _, m := range members {
		tp, err := parseTraceMember(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt trace of chain %s: %w", chainID, err)
		}
		trace = append(trace, tp)
	}
	return trace, nil
}

// live keeps the chains whose checkpoint hash still exists.
// Chains whose checkpoint expired are dropped from the ranking.
func (s *Store) live(ctx context.Context, chains []string) ([]string, error) {
	if len(chains) == 0 {
		return chains, nil
	}

	exists := make([]*backend.IntCmd, len(chains))
	_, err := s.client.Pipelined(ctx, func(pipe backend.Pipeliner) error {
		for i, id := range chains {
			exists[i] = pipe.Exists(ctx, s.chainKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check chains: %w", err)
	}

	alive := chains[:0]
	var expired []any
	for i, id := range chains {
		if exists[i].Val() > 0 {
			alive = append(alive, id)
		} else {
			expired = append(expired, id)
		}
	}
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.rankKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to drop expired chains: %w", err)
		}
	}
	return alive, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func traceMember(step int, logDensity float64) string {
	return strconv.Itoa(step) + "|" + strconv.FormatFloat(logDensity, 'g', -1, 64)
}

func parseTraceMember(m string) (TracePoint, error) {
	stepStr, ldStr, ok := strings.Cut(m, "|")
	if !ok {
		return TracePoint{}, fmt.Errorf("malformed trace entry %q", m)
	}
	step, err := strconv.Atoi(stepStr)
	if err != nil {
		return TracePoint{}, fmt.Errorf("malformed trace entry %q: %w", m, err)
	}
	ld, err := strconv.ParseFloat(ldStr, 64)
	if err != nil {
		return TracePoint{}, fmt.Errorf("malformed trace entry %q: %w", m, err)
	}
	return TracePoint{Step: step, LogDensity: ld}, nil
}
