package repository

import (
	"context"

	"github.com/tomabrook/cheese-ledger/internal/model"
)

// Registry adapts the producer and variety repositories to the
// ledger.RegistryStore interface so the booking engine can validate
// references and resolve producer authority.
type Registry struct {
	Producers *ProducerRepo
	Varieties *VarietyRepo
}

// NewRegistry constructs a Registry over the two repositories.
func NewRegistry(p *ProducerRepo, v *VarietyRepo) *Registry {
	if p == nil || v == nil {
		panic("nil repository passed to NewRegistry")
	}
	return &Registry{Producers: p, Varieties: v}
}

func (r *Registry) GetProducer(ctx context.Context, id uint64) (*model.Producer, error) {
	return r.Producers.GetProducer(ctx, id)
}

func (r *Registry) GetCheeseVariety(ctx context.Context, id uint64) (*model.CheeseVariety, error) {
	return r.Varieties.GetCheeseVariety(ctx, id)
}
