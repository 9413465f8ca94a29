package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/utitree/pkg/hierarchy"
	"github.com/matzehuels/utitree/pkg/relation"
)

func ExampleBuild() {
	rel := relation.New()
	rel.Add("public.data")
	rel.Add("public.content", "public.data")
	rel.Add("public.text", "public.content")

	g, err := hierarchy.Build(rel)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Roots:", hierarchy.Names(g.Roots()))
	fmt.Println("Forest:", hierarchy.Stringify(g.Forest()))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Roots: [public.data]
	// Forest: [map[public.data:[map[public.content:[public.text]]]]]
}

func ExampleNode_UltimateAncestors() {
	// public.text conforms to two independent top-level types.
	rel := relation.New()
	rel.Add("public.data", "public.item")
	rel.Add("public.text", "public.data", "public.content")
	rel.Add("public.plain-text", "public.text")

	g, _ := hierarchy.Build(rel)
	n, _ := g.Node("public.plain-text")

	fmt.Println(hierarchy.Names(n.UltimateAncestors()))
	// Output:
	// [public.content public.item]
}

func ExampleGraph_ChildrenIndex() {
	rel := relation.New()
	rel.Add("public.image", "public.data")
	rel.Add("public.jpeg", "public.image")

	g, _ := hierarchy.Build(rel)
	index := g.ChildrenIndex()

	for _, name := range g.Names() {
		fmt.Println(name, index[name])
	}
	// Output:
	// public.data [public.image public.jpeg]
	// public.image [public.jpeg]
	// public.jpeg []
}
