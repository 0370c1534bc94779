// Package core contains the multihook dispatch engine: per-pool ordered hook
// sets, capability-gated lifecycle forwarding, balance-delta aggregation,
// fee-override resolution, and the weighted fee calculation strategy. Core
// must not depend on storage or transport adapters; those depend on core.
package core
