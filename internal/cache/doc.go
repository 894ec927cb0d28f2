// Package cache stores synthesized chunk audio so repeated conversions of
// the same text with the same voice skip the speech backend. It combines an
// in-memory LRU cache with a zstd-compressed disk cache.
package cache
