// Package config loads YAML facility definitions and materializes
// them into model entities and engine objects.
//
// A facility file declares locations with their equipment, parts and
// workers, plus products with their action sequences and declared
// requirements, plus jobs over those products. Loading is two-phase:
// Parse unmarshals and validates the document, Build constructs the
// entity graph and indexes actions and jobs in an engine.Registry.
//
// Validation runs struct tags through go-playground/validator, so a
// malformed document fails before any entity is created.
package config
