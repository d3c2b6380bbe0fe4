// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// SimulationPath is the repository-relative path of the simulation schema
const SimulationPath = "schemas/simulation.schema.json"

// Simulation is the JSON Schema for simulation documents
//
//go:embed simulation.schema.json
var Simulation []byte
