// Package domain models infrastructure fragility assessment data: hierarchical
// component trees, fragility curve parameterizations, and prepared climate
// datasets.
//
// # HBOM Trees
//
// An HBOM (Hierarchical Bill of Materials) decomposes an infrastructure asset
// into subcomponents, e.g. substation → transformer → bushing. Trees are
// persisted as flat records carrying parent_uuid/children_uuids bookkeeping and
// reconstructed into nested [ComponentNode] values per request by
// [Reconstructor.Reconstruct]. A node with no parent is a root; a flat set may
// contain several roots. Dangling child references are dropped during
// reconstruction; cycles are rejected.
//
// # Fragility Curves
//
// A fragility curve maps hazard intensity (a climate variable's magnitude) to a
// probability of failure (PoF) in [0,1]. Three distribution families are
// supported:
//
//	lognormal: Φ((ln(x+ε) − ln(median)) / dispersion), or Φ((ln(x+ε) − mu) / sigma)
//	weibull:   1 − exp(−(x/scale)^shape)
//	logistic:  σ(slope · (x − mid_point))
//
// The sentinel model "inherit" marks a node that contributes no failure mode of
// its own; its PoF is aggregated purely from its children.
//
// Curve documents are uploaded per (component, hazard) and may carry priority
// and condition metadata. When several documents target the same component and
// hazard, the first one wins by default; see [CurveSelector].
//
// # Reliability Combination
//
// Components are modeled as a reliability series: a system fails if any member
// fails, so P(fail) = 1 − Π(1 − Pᵢ) assuming independence between members.
// Each node's own PoF is placed in series with the aggregate of its children,
// bottom-up. A node's headline figure is the maximum combined PoF across
// climate variables.
//
// # Climate Data Conventions
//
// Prepared datasets arrive from the climate pipeline with an ordered variable
// list, a shared ISO-8601 time axis, and one time-aligned series per (grid
// cell, variable). Missing observations are JSON null, held internally as NaN
// by [Series]. Variable codes follow CORDEX conventions: tas (air temperature,
// Kelvin), hurs (relative humidity, %), pr (precipitation), rsds (shortwave
// radiation), sfcWind (surface wind speed). Composite variables such as the
// heat index ("hi") are derived locally from base variables; see
// [CompositeRegistry].
package domain
