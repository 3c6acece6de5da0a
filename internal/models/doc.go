// Package models defines the data model for the music aggregation service.
//
// The normalized types ([Track], [LyricDocument]) form the stable contract
// every catalog provider projects its upstream shapes into before results
// leave the core. Persistent types implement [Model] and are stored through
// a [Repository].
package models
