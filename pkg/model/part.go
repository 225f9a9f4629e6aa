package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

// Part is a material or component tracked by quantity. Part
// requirements match against the part name, so two part records with
// the same name at one location pool their quantities.
type Part struct {
	// ID is the unique identifier.
	ID string

	// Name is the part name, e.g. "Steel Plate".
	Name string

	// Type categorizes the part by source.
	Type PartType

	// UnitCost is the cost per unit.
	UnitCost float64

	// Volume is the storage volume one unit occupies.
	Volume float64

	// MinStock is the reorder threshold.
	MinStock float64

	// Supplier names the source of externally procured parts.
	Supplier string

	// CreationDate is when the part record was created.
	CreationDate time.Time

	quantity     float64
	state        ProductionState
	lastModified time.Time
	log          zerolog.Logger
}

// NewPart creates a part record with an initial quantity.
func NewPart(name string, partType PartType, quantity, unitCost float64, log zerolog.Logger) (*Part, error) {
	if name == "" {
		return nil, fmt.Errorf("part name is required")
	}
	if err := partType.Validate(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("part quantity cannot be negative")
	}
	now := time.Now()
	p := &Part{
		ID:           uuid.New().String(),
		Name:         name,
		Type:         partType,
		UnitCost:     unitCost,
		CreationDate: now,
		quantity:     quantity,
		state:        ProductionRaw,
		lastModified: now,
		log:          log,
	}
	p.log.Info().Str("part_id", p.ID).Str("name", name).Float64("quantity", quantity).Msg("created part")
	return p, nil
}

// Quantity returns the available quantity.
func (p *Part) Quantity() float64 {
	return p.quantity
}

// AdjustQuantity adds a positive or negative delta to the quantity.
// The quantity never goes below zero.
func (p *Part) AdjustQuantity(delta float64) error {
	if p.quantity+delta < 0 {
		return fmt.Errorf("cannot remove %g units of %s, only %g available", -delta, p.Name, p.quantity)
	}
	p.quantity += delta
	p.touch()
	if p.quantity < p.MinStock {
		p.log.Warn().Str("part_id", p.ID).Str("name", p.Name).
			Float64("quantity", p.quantity).Float64("min_stock", p.MinStock).
			Msg("part below minimum stock")
	}
	return nil
}

// BelowMinStock reports whether the quantity dropped under the
// reorder threshold.
func (p *Part) BelowMinStock() bool {
	return p.quantity < p.MinStock
}

// State returns the production state.
func (p *Part) State() ProductionState {
	return p.state
}

// SetState writes the production state.
func (p *Part) SetState(s ProductionState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.state = s
	p.touch()
	return nil
}

// TotalValue returns quantity times unit cost.
func (p *Part) TotalValue() float64 {
	return p.quantity * p.UnitCost
}

// TotalVolume returns quantity times unit volume.
func (p *Part) TotalVolume() float64 {
	return p.quantity * p.Volume
}

// LastModified returns the timestamp of the last mutation.
func (p *Part) LastModified() time.Time {
	return p.lastModified
}

func (p *Part) touch() {
	p.lastModified = time.Now()
}

// SnapshotEntries implements SnapshotSource.
func (p *Part) SnapshotEntries() []engine.SnapshotEntry {
	return []engine.SnapshotEntry{{
		ResourceID: p.ID,
		Category:   engine.CategoryPart,
		Subtype:    string(p.Type),
		Name:       p.Name,
		Quantity:   p.quantity,
	}}
}
