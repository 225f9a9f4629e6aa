// Package engine implements the requirement-specification and
// lifecycle core of the OpenMFG manufacturing model.
//
// The engine owns the parts of the system with real branching logic:
// the Requirement value type and its per-kind validation rules, the
// satisfaction Checker that matches requirements against a location's
// resource snapshot, the Action and Job status machines, and the
// per-job allocation ledger that binds actions to resources.
//
// Everything here is synchronous, in-memory computation. The engine
// performs no I/O and never fetches a snapshot itself; callers take a
// consistent snapshot (for example via model.Location.Snapshot) and
// pass it in. Mutating calls against a single Job must be serialized
// by the caller; requirement validation and the Checker are pure and
// safe from any goroutine.
package engine
