// Package dofs holds the named degree-of-freedom vector of one geometric
// object: an ordered list of scalar shape parameters, each with a unique
// name and a free/fixed flag.
//
// The store supports two access views:
//
//   - the full vector (FullX/SetFullX, Value/SetValue) — every parameter
//     in declaration order, the order all dof-derivative arrays use;
//   - the free vector (X/SetX) — the subsequence of unfixed parameters,
//     preserving declaration order, the view an outer optimizer sees.
//
// Named access (Get/Set, Fix/Unfix) locates parameters through an index
// map built once at construction, so lookups are O(1).
//
// Every value mutation (Set, SetValue, SetX, SetFullX) notifies the
// callbacks registered with OnChange before returning. Owning objects
// register their cache invalidation there; no mutation path bypasses it.
// Fix and Unfix only change which parameters are exposed through the
// free view, values stay as they are, so they do not notify.
//
// Errors: ErrNameCount, ErrDuplicateName, ErrUnknownName (wrapped in
// NameError), ErrIndexRange, ErrLength.
package dofs
