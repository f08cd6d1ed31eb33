// Package runner executes the chain built by the rewrite rules.
//
// The strategy is picked once per run from the final argument list:
//
//   - [StrategyPrint] when --noop was given: every step is printed, one per line.
//   - [StrategyNone] when the primary invocation was skipped and nothing else remains.
//   - [StrategyReplace] when a single spawn step remains: hub replaces itself with it.
//   - [StrategyChain] otherwise: steps run in order and the first failure stops the chain.
//
// In a chain, the last step replaces the hub process when it spawns a
// program, so its exit status reaches the caller verbatim.
package runner
