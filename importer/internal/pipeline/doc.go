// Package pipeline orchestrates one import: config schema validation, HOST
// resolution, credential resolution, the range query and enrichment.
//
// The source-versus-passthrough roles are explicit operations:
//   - Import(ctx) always queries the backend and returns fresh observations
//   - Passthrough(inputs) returns inputs unchanged without touching the network
//   - Execute(ctx, inputs) picks Passthrough for non-empty inputs, Import otherwise
//
// Errors from every stage propagate unchanged as *importerr.Error values and
// no partial result is ever returned.
package pipeline
