// Package feed decodes the external brokerage event document into the
// closed event model.
//
// The document is UTF-8 JSON of the shape
//
//	{ "<account>": { "events": [ Event, ... ] }, ... }
//
// Decoding is strict: the raw document is read into a generic tree and
// then validated field by field against the closed model; anything that
// does not match fails with a MalformedError rather than being coerced.
// Dates are ISO-8601 and are converted to TAI64 labels at parse time, so
// downstream components never touch wall-clock representations.
package feed
