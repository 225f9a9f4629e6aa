// Package model holds the passive entity containers of the OpenMFG
// manufacturing model: resources and their specializations, locations,
// actors, routes, parts, products and sensors.
//
// These types are validated attribute holders with list operations and
// map export; the branching logic lives in pkg/engine. Accessors
// return copies; a returned slice or map is a snapshot and does not
// reflect later mutation of the entity.
package model
