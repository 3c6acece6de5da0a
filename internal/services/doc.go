// Package services implements the catalog providers behind the aggregation
// API.
//
// Each provider speaks to one undocumented upstream music catalog and
// projects its responses into the normalized [models.Track] and
// [models.LyricDocument] shapes. Upstream schemas are isolated in
// per-provider decode structs so drift never leaks past this package.
//
// Every outbound call is bounded by the injected client's timeout and is
// attempted exactly once; callers decide whether to re-invoke. Within one
// resolution the dependent calls of a chain run strictly sequentially,
// since each step's request is built from the previous step's response.
package services
