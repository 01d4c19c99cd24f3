// Package metadata models front matter as a tagged value union and
// extracts the scholarly title block from it. Parsing is tolerant by
// contract: malformed input collapses to an absent value instead of an
// error, so a bad document never aborts a render.
package metadata
