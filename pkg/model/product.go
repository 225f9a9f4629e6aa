package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

// BOMLine is one bill-of-materials entry: a part and how many units
// one product consumes.
type BOMLine struct {
	Part     *Part
	Quantity float64
}

// Product is a manufacturable good with a bill of materials and the
// action sequence that produces it. It satisfies engine.Product, so a
// job can take ownership of its actions.
type Product struct {
	// ID is the unique identifier.
	ID string

	// Name is the product's display name.
	Name string

	// SKU is the stock keeping unit code, if any.
	SKU string

	// CustomerID references the ordering customer, if any.
	CustomerID string

	// DueDate is the planned completion instant, if any.
	DueDate time.Time

	// CreationDate is when the product record was created.
	CreationDate time.Time

	bom          []BOMLine
	actions      []*engine.Action
	state        ProductionState
	lastModified time.Time
	log          zerolog.Logger
}

// NewProduct creates a product record in the new state.
func NewProduct(name, sku string, log zerolog.Logger) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	now := time.Now()
	p := &Product{
		ID:           uuid.New().String(),
		Name:         name,
		SKU:          sku,
		CreationDate: now,
		state:        ProductionNew,
		lastModified: now,
		log:          log,
	}
	p.log.Info().Str("product_id", p.ID).Str("name", name).Msg("created product")
	return p, nil
}

// ProductID implements engine.Product.
func (p *Product) ProductID() string {
	return p.ID
}

// ProductActions implements engine.Product, returning the action
// sequence in insertion order.
func (p *Product) ProductActions() []*engine.Action {
	return append([]*engine.Action(nil), p.actions...)
}

// AddAction appends an action to the production sequence.
func (p *Product) AddAction(a *engine.Action) {
	p.actions = append(p.actions, a)
	p.touch()
}

// RemoveAction drops an action from the production sequence.
func (p *Product) RemoveAction(id string) bool {
	for i, a := range p.actions {
		if a.ID == id {
			p.actions = append(p.actions[:i], p.actions[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// AddPart appends a bill-of-materials line. Adding the same part again
// raises its quantity.
func (p *Product) AddPart(part *Part, quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("part quantity must be positive")
	}
	for i, line := range p.bom {
		if line.Part.ID == part.ID {
			p.bom[i].Quantity += quantity
			p.touch()
			return nil
		}
	}
	p.bom = append(p.bom, BOMLine{Part: part, Quantity: quantity})
	p.touch()
	return nil
}

// RemovePart drops a bill-of-materials line.
func (p *Product) RemovePart(partID string) bool {
	for i, line := range p.bom {
		if line.Part.ID == partID {
			p.bom = append(p.bom[:i], p.bom[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// BOM returns a copy of the bill of materials.
func (p *Product) BOM() []BOMLine {
	return append([]BOMLine(nil), p.bom...)
}

// MaterialCost returns the summed part costs of one product unit.
func (p *Product) MaterialCost() float64 {
	var total float64
	for _, line := range p.bom {
		total += line.Part.UnitCost * line.Quantity
	}
	return total
}

// State returns the production state.
func (p *Product) State() ProductionState {
	return p.state
}

// SetState writes the production state.
func (p *Product) SetState(s ProductionState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.state = s
	p.touch()
	return nil
}

// IsOverdue reports whether a declared due date has passed.
func (p *Product) IsOverdue() bool {
	return !p.DueDate.IsZero() && time.Now().After(p.DueDate)
}

// LastModified returns the timestamp of the last mutation.
func (p *Product) LastModified() time.Time {
	return p.lastModified
}

func (p *Product) touch() {
	p.lastModified = time.Now()
}
