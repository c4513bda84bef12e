// Package mixer implements the playlist blending pipeline.
//
// The pipeline runs in five stages, each a pure function over the domain
// types in [github.com/desertthunder/mixt/internal/models]:
//
//  1. [Normalize] : raw export rows → deduplicated SourcePlaylist
//  2. [BuildPools] : shared-track filtering + per-source shuffle
//  3. [Allocate] : weights + total → integer quota per source (exact sum)
//  4. [Select] : per-source picks under the global artist cap
//  5. [Interleave] : proportional spacing into one ordered sequence
//
// [MixEngine.Run] orchestrates stages 2-5 and emits progress updates via
// channels for non-blocking status reporting to CLI/UI layers. Shuffling is
// the only non-deterministic stage; it is injected as a [Shuffler] so tests
// and seeded runs stay reproducible.
package mixer
