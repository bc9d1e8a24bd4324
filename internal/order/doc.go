// Package order keeps the stacking order of map layers consistent.
//
// Two representations of the same order exist side by side in a workbench
// session: the now-viewing list, which only moves an item one step at a time,
// and the flat layer order held by the map store. Reconcile replays a
// requested move on the first and applies exactly the move that took effect to
// the second.
//
// Key components:
//   - LegacyList: the single-step collaborator driven by Reconcile
//   - Reconcile: translates an (old, new) drag pair into raise/lower steps
//   - Move: pure array move used to derive the new layer order
//   - Sequence: immutable ordered value type with MoveTo, Raise and Lower
package order
