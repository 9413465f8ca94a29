// Package relation holds the raw identifier → parent identifiers table that
// every source adapter produces and the graph builder consumes.
//
// A [Relation] is deliberately dumb: it is a map of sets with helpers for
// deterministic iteration ([Relation.Names], [Set.Sorted]), hashing, and the
// merge policy used when two sources are combined. [Merge] unions parent sets
// per key and drops any self reference the union creates, returning a
// [Diagnostic] for each drop so callers can log it.
//
//	web := relation.New()
//	web.Add("public.text", "public.data", "public.content")
//
//	local := relation.New()
//	local.Add("public.text", "public.text") // bad record
//
//	merged, diags := relation.Merge(web, local)
//	// merged["public.text"] == {"public.data", "public.content"}
//	// diags == [{public.text dropped self reference}]
package relation
