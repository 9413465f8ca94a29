// Package pkg holds the libraries behind utitree.
//
// # Overview
//
// utitree reads the Uniform Type Identifiers Apple declares, each with the
// identifiers it conforms to, and derives two views of the implied DAG: a
// nested tree from every top-level identifier down to its descendants, and
// a flat map from every identifier to all of its descendants.
//
// # Architecture
//
//	web page / lsregister dump / relation file
//	         ↓
//	    [source] adapters (one [relation.Relation] each)
//	         ↓
//	    [relation.Merge] (union parents, drop self references)
//	         ↓
//	    [hierarchy.Build] (linked graph, cycles rejected)
//	         ↓
//	    [hierarchy.Graph.Forest] and [hierarchy.Graph.ChildrenIndex]
//	         ↓
//	    [document] YAML/JSON, [dot] DOT/SVG, [store], [server]
//
// [pipeline] runs these stages for both the command line and the server.
//
// # Quick Start
//
//	rel := relation.New()
//	rel.Add("public.data", "public.item")
//	rel.Add("public.jpeg", "public.image")
//	rel.Add("public.image", "public.data")
//
//	g, err := hierarchy.Build(rel)
//	if err != nil {
//	    return err
//	}
//	tree := hierarchy.Stringify(g.Forest())
//	children := g.ChildrenIndex()
//
// # Packages
//
// [hierarchy] - The graph and its closures: ultimate ancestors, descendant
// sets, the forest and the children index. Closures are memoized per node.
//
// [relation] - The raw identifier to parent-set mapping, merging and the
// known typo corrections.
//
// [source] - The adapter interface and its failure types; [source/web],
// [source/lsregister] and [source/file] implement it.
//
// [httputil] and [cache] - Cached page downloads with retry, on disk or in
// Redis.
//
// [errors] - Coded errors and process exit statuses.
//
// [observability] - Hooks for fetch, build, write, cache and HTTP events.
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/hierarchy
// [relation]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/relation
// [relation.Relation]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/relation#Relation
// [relation.Merge]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/relation#Merge
// [hierarchy.Build]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/hierarchy#Build
// [hierarchy.Graph.Forest]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/hierarchy#Graph.Forest
// [hierarchy.Graph.ChildrenIndex]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/hierarchy#Graph.ChildrenIndex
// [source]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/source
// [source/web]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/source/web
// [source/lsregister]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/source/lsregister
// [source/file]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/source/file
// [document]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/document
// [dot]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/render/dot
// [store]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/server
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/pipeline
// [httputil]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/utitree/pkg/observability
package pkg
