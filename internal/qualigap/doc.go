// Package qualigap computes a driver's strongest qualifying circuits relative
// to their teammate.
//
// The pipeline runs in fixed steps:
//
//	Collect        schedules and qualifying sessions -> per-race gaps
//	FilterOutliers drop gaps whose magnitude reaches the limit
//	Average        mean gap per surviving race
//	Rank           most negative first, top N
//
// A gap is the target driver's fastest qualifying lap minus the teammate's,
// so negative values mean the target out-qualified the teammate. Every race
// in a season schedule is registered even when the driver never took part,
// and sessions where no teammate or lap time exists are recorded as skips
// rather than failing the run.
package qualigap
