package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/openmfg/openmfg/pkg/engine"
	"github.com/openmfg/openmfg/pkg/model"
)

// Facility is the materialized entity graph of a facility definition.
type Facility struct {
	// Name is the facility name.
	Name string

	// Locations, Storages and Products index the built entities by
	// their configured names.
	Locations map[string]*model.Location
	Storages  map[string]*model.Storage
	Products  map[string]*model.Product

	// Routes are the built routes, in declaration order.
	Routes []*model.Route

	// Jobs are the built jobs, in declaration order.
	Jobs []*engine.Job

	// Registry indexes every built action and job.
	Registry *engine.Registry
}

// Loader parses and materializes facility definitions.
type Loader struct {
	validate *validator.Validate
	log      zerolog.Logger
}

// NewLoader creates a loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		validate: validator.New(),
		log:      log,
	}
}

// Load reads, parses and validates a facility definition file.
func (l *Loader) Load(path string) (*FacilityConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facility definition: %w", err)
	}
	cfg, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.log.Info().Str("path", path).Int("locations", len(cfg.Locations)).Msg("loaded facility definition")
	return cfg, nil
}

// Parse unmarshals and validates a facility definition document.
func (l *Loader) Parse(data []byte) (*FacilityConfig, error) {
	var cfg FacilityConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing facility definition: %w", err)
	}
	if err := l.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating facility definition: %w", err)
	}
	return &cfg, nil
}

// Build materializes a parsed definition into the entity graph. Every
// built action and job is indexed in the returned facility's registry.
//
// Jobs get their own product instances: actions belong to exactly one
// job, so two jobs over the same product name must not share actions.
// The Products index holds one canonical, job-free instance per name.
func (l *Loader) Build(cfg *FacilityConfig) (*Facility, error) {
	f := &Facility{
		Name:      cfg.Facility.Name,
		Locations: make(map[string]*model.Location),
		Storages:  make(map[string]*model.Storage),
		Products:  make(map[string]*model.Product),
		Registry:  engine.NewRegistry(),
	}

	for _, lc := range cfg.Locations {
		loc, err := l.buildLocation(lc)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", lc.Name, err)
		}
		if _, dup := f.Locations[lc.Name]; dup {
			return nil, fmt.Errorf("duplicate location name %q", lc.Name)
		}
		f.Locations[lc.Name] = loc
	}

	for _, sc := range cfg.Storages {
		st, err := model.NewStorage(sc.Name, model.StorageType(sc.StorageType), sc.MaxCapacity, sc.Georeference, l.log)
		if err != nil {
			return nil, fmt.Errorf("storage %q: %w", sc.Name, err)
		}
		f.Storages[sc.Name] = st
	}

	for _, rc := range cfg.Routes {
		origin, ok := f.Locations[rc.Origin]
		if !ok {
			return nil, fmt.Errorf("route %q: unknown origin %q", rc.Name, rc.Origin)
		}
		dest, ok := f.Locations[rc.Destination]
		if !ok {
			return nil, fmt.Errorf("route %q: unknown destination %q", rc.Name, rc.Destination)
		}
		route, err := model.NewRoute(rc.Name, origin.ID, dest.ID, rc.Waypoints, rc.Bidirectional, l.log)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", rc.Name, err)
		}
		if err := origin.AddRoute(route); err != nil {
			return nil, fmt.Errorf("route %q: %w", rc.Name, err)
		}
		if rc.Bidirectional {
			if err := dest.AddRoute(route); err != nil {
				return nil, fmt.Errorf("route %q: %w", rc.Name, err)
			}
		}
		f.Routes = append(f.Routes, route)
	}

	productCfgs := make(map[string]ProductConfig, len(cfg.Products))
	for _, pc := range cfg.Products {
		if _, dup := productCfgs[pc.Name]; dup {
			return nil, fmt.Errorf("duplicate product name %q", pc.Name)
		}
		productCfgs[pc.Name] = pc
		prod, err := l.buildProduct(pc, f)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", pc.Name, err)
		}
		f.Products[pc.Name] = prod
	}

	for i, jc := range cfg.Jobs {
		job, err := l.buildJob(jc, productCfgs, f)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
		f.Jobs = append(f.Jobs, job)
		f.Registry.AddJob(job)
	}

	l.log.Info().
		Str("facility", f.Name).
		Int("locations", len(f.Locations)).
		Int("products", len(f.Products)).
		Int("jobs", len(f.Jobs)).
		Msg("built facility")
	return f, nil
}

func (l *Loader) buildLocation(lc LocationConfig) (*model.Location, error) {
	loc, err := model.NewLocation(lc.Name, model.LocationType(lc.Type), lc.Georeference, l.log)
	if err != nil {
		return nil, err
	}
	for _, mc := range lc.Machines {
		m, err := model.NewMachine(mc.Name, mc.MachineType, mc.Georeference, l.log)
		if err != nil {
			return nil, err
		}
		for _, capability := range mc.Capabilities {
			m.AddCapability(capability)
		}
		loc.Add(m)
	}
	for _, vc := range lc.Vehicles {
		v, err := model.NewVehicle(vc.Name, model.VehicleType(vc.VehicleType), vc.Speed, vc.LoadCapacity, nil, l.log)
		if err != nil {
			return nil, err
		}
		loc.Add(v)
	}
	for _, tc := range lc.Tools {
		tool, err := model.NewTool(tc.Name, tc.ToolType, l.log)
		if err != nil {
			return nil, err
		}
		loc.Add(tool)
	}
	for _, wc := range lc.Workers {
		w, err := model.NewWorker(wc.Name, wc.Role, wc.Skills, wc.HourlyRate, l.log)
		if err != nil {
			return nil, err
		}
		for _, role := range wc.ExtraRoles {
			w.AddRole(role, nil)
		}
		loc.Add(w)
	}
	for _, pc := range lc.Parts {
		p, err := model.NewPart(pc.Name, model.PartType(pc.PartType), pc.Quantity, pc.UnitCost, l.log)
		if err != nil {
			return nil, err
		}
		p.MinStock = pc.MinStock
		p.Supplier = pc.Supplier
		loc.Add(p)
	}
	return loc, nil
}

// buildProduct materializes one product instance with fresh actions.
// Called once per product declaration and once more per job reference.
func (l *Loader) buildProduct(pc ProductConfig, f *Facility) (*model.Product, error) {
	prod, err := model.NewProduct(pc.Name, pc.SKU, l.log)
	if err != nil {
		return nil, err
	}
	for seq, ac := range pc.Actions {
		locationID := ""
		if ac.Location != "" {
			loc, ok := f.Locations[ac.Location]
			if !ok {
				return nil, fmt.Errorf("action %q: unknown location %q", ac.Name, ac.Location)
			}
			locationID = loc.ID
		}
		action, err := engine.NewAction(engine.ActionParams{
			Name:        ac.Name,
			Type:        engine.ActionType(ac.Type),
			Description: ac.Description,
			Duration:    ac.Duration,
			SequenceNr:  seq + 1,
			LocationID:  locationID,
			Logger:      l.log,
		})
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", ac.Name, err)
		}
		for _, rc := range ac.Requirements {
			if err := addRequirement(action, rc); err != nil {
				return nil, fmt.Errorf("action %q: %w", ac.Name, err)
			}
		}
		prod.AddAction(action)
		f.Registry.AddAction(action)
	}
	return prod, nil
}

// addRequirement maps a requirement declaration onto the spec list the
// engine expects.
func addRequirement(action *engine.Action, rc RequirementConfig) error {
	kind, err := engine.ParseRequirementKind(rc.Kind)
	if err != nil {
		return err
	}
	if kind == engine.RequirementPart {
		if rc.Name == "" {
			return fmt.Errorf("part requirement needs a part name")
		}
		if rc.MinQuantity > 0 {
			return action.AddRequirement(kind, rc.Name, rc.MinQuantity)
		}
		return action.AddRequirement(kind, rc.Name)
	}
	if rc.Subtype != "" {
		return action.AddRequirement(kind, rc.Subtype)
	}
	return action.AddRequirement(kind)
}

func (l *Loader) buildJob(jc JobConfig, productCfgs map[string]ProductConfig, f *Facility) (*engine.Job, error) {
	products := make([]engine.Product, 0, len(jc.Products))
	for _, name := range jc.Products {
		pc, ok := productCfgs[name]
		if !ok {
			return nil, fmt.Errorf("unknown product %q", name)
		}
		prod, err := l.buildProduct(pc, f)
		if err != nil {
			return nil, err
		}
		products = append(products, prod)
	}
	return engine.NewJob(engine.JobParams{
		ID:         jc.ID,
		CustomerID: jc.CustomerID,
		Products:   products,
		Priority:   engine.JobPriority(jc.Priority),
		DueDate:    jc.DueDate,
		Logger:     l.log,
	})
}
