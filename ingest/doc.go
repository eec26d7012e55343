// Package ingest implements the document-transformation pipeline engine:
// path-addressed documents, the processor contract and registry, compound
// processors with failure-recovery semantics, and the pipeline factory that
// builds pipelines from raw configuration with strict key validation.
package ingest
