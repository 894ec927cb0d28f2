// Package audio decodes, normalises, concatenates and exports the
// per-chunk audio produced by speech backends, and plays finished files.
package audio
