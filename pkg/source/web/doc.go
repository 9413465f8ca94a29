// Package web reads the UTI relation from Apple's published reference page.
//
// The page holds one table of system-declared identifiers. Column 1 holds
// the identifier, optionally followed by a parenthesized tag:
//
//	public.jpeg (jpeg)
//
// Column 2 lists the identifiers it conforms to, or "-" for none. Cell
// text is reduced to printable ASCII before matching, since the page
// contains non-breaking spaces.
//
// Downloads go through [httputil.Client], so repeated runs reuse the
// cached page unless a refresh is requested.
package web
