// Package document serializes the two views of a UTI hierarchy.
//
// # Documents
//
// The tree document is a list of root trees. A leaf is a bare identifier
// and an interior node is a single-key mapping to its child trees:
//
//	- public.item:
//	    - public.data:
//	        - public.text
//
// The children document maps every identifier to the sorted list of all
// its descendants, with an empty list for leaves:
//
//	public.data:
//	  - public.text
//	public.text: []
//
// Both are written as YAML (the default) or JSON, chosen by [Format].
// Files are written to a temporary file in the destination directory and
// renamed into place, so readers never observe a partial document.
package document
