// Package core defines the validated domain model for the Caravan transport
// data contract.
//
// # Architecture Overview
//
// The core package provides:
//   - Entity types (Organization, Vehicle, Driver, TransportOperation) and
//     their nested records (Insurance, Revision, TachographCard, ...)
//   - Strict decoding from raw records with aggregated validation errors
//   - Normalized compound keys derived once at construction time
//   - Canonical JSON serialization of constructed entities
//   - JSON-schema validation of embedded e-CMR documents
//
// # Design Principles
//
//  1. Entities are immutable after validated construction; there is no
//     mutation API. A reload replaces entities wholesale.
//  2. Cross-entity references are stored as normalized keys, never as live
//     pointers, so every entity serializes independently.
//  3. Validation happens exactly once, at decode time. Lookup code can
//     assume every entity it sees already satisfies the contract.
//  4. All decode functions are pure: raw bytes in, entity or
//     *ValidationError out, no side effects.
package core
