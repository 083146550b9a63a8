// Package traverse drives a depth-first walk of a query document's
// selection sets, dispatching fields, inline fragments, and resolved
// fragment spreads to a Visitor. It never interprets schema or filter
// semantics — that's the compiler's job.
package traverse

import "github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"

// SelectionSetParent identifies what kind of node owns a selection set
// being entered/exited, so the emitter can decide whether to collapse its
// tokens or fold them into the enclosing context.
type SelectionSetParent int

const (
	ParentField SelectionSetParent = iota
	ParentFragmentDefinition
	ParentInlineFragment
)

// Visitor receives traversal callbacks. VisitField returns "handled" to
// suppress descent into that field's own selection set (used for leaf
// scalar fields and `__typename`).
type Visitor interface {
	VisitField(node *queryast.FieldNode) (handled bool)
	VisitEndField(node *queryast.FieldNode)
	VisitInlineFragment(node *queryast.InlineFragment)
	VisitEndInlineFragment(node *queryast.InlineFragment)
	VisitSelectionSet(parent SelectionSetParent)
	VisitEndSelectionSet(parent SelectionSetParent)
}

// Traverse walks the document's single operation, restricting the root
// selection set to the field named rootFieldName — only one top-level
// field is compiled per call.
func Traverse(doc *queryast.Document, rootFieldName string, visitor Visitor) {
	op, ok := doc.Operation()
	if !ok {
		return
	}
	for _, sel := range op.SelectionSet {
		field, ok := sel.(*queryast.FieldNode)
		if !ok || field.Name != rootFieldName {
			continue
		}
		walkField(doc, field, visitor)
	}
}

func walkField(doc *queryast.Document, field *queryast.FieldNode, visitor Visitor) {
	handled := visitor.VisitField(field)
	if !handled {
		walkSelectionSet(doc, field.SelectionSet, ParentField, visitor)
	}
	visitor.VisitEndField(field)
}

func walkSelectionSet(doc *queryast.Document, selections []queryast.Selection, parent SelectionSetParent, visitor Visitor) {
	visitor.VisitSelectionSet(parent)
	for _, sel := range selections {
		switch s := sel.(type) {
		case *queryast.FieldNode:
			walkField(doc, s, visitor)
		case *queryast.InlineFragment:
			visitor.VisitInlineFragment(s)
			walkSelectionSet(doc, s.SelectionSet, ParentInlineFragment, visitor)
			visitor.VisitEndInlineFragment(s)
		case *queryast.FragmentSpread:
			frag, ok := doc.Fragments[s.Name]
			if !ok {
				continue
			}
			// No bracketing callbacks: a fragment spread walks its
			// selection set in place, folding into the enclosing field.
			walkFragmentSelectionSet(doc, frag.SelectionSet, visitor)
		}
	}
	visitor.VisitEndSelectionSet(parent)
}

// walkFragmentSelectionSet inlines a named fragment's selections without
// opening a new bracketed selection-set scope of its own.
func walkFragmentSelectionSet(doc *queryast.Document, selections []queryast.Selection, visitor Visitor) {
	for _, sel := range selections {
		switch s := sel.(type) {
		case *queryast.FieldNode:
			walkField(doc, s, visitor)
		case *queryast.InlineFragment:
			visitor.VisitInlineFragment(s)
			walkSelectionSet(doc, s.SelectionSet, ParentInlineFragment, visitor)
			visitor.VisitEndInlineFragment(s)
		case *queryast.FragmentSpread:
			frag, ok := doc.Fragments[s.Name]
			if !ok {
				continue
			}
			walkFragmentSelectionSet(doc, frag.SelectionSet, visitor)
		}
	}
}
