package layout

// Container widths and spacing. Class names follow the site's Tailwind
// build.
var (
	wideClasses            = []string{"container-wide", "max-w-screen-xl", "mx-auto", "px-6", "lg:px-8"}
	narrowClasses          = []string{"container-narrow", "max-w-prose", "mx-auto"}
	verticalSpacingClasses = []string{"flex", "flex-col", "gap-4"}
	bottomPaddingClasses   = []string{"pb-8", "md:pb-12"}
	labelsClasses          = []string{"labels", "flex", "flex-wrap", "gap-2"}
	labelClasses           = []string{"label", "rounded", "px-2", "py-1", "text-sm", "bg-gray-100"}
)

// WrapWide wraps children in a full-width page container. Empty input
// stays empty.
func WrapWide(children ...Node) Node {
	return wrap(wideClasses, children)
}

// WrapNarrow wraps children in a reading-width container.
func WrapNarrow(children ...Node) Node {
	return wrap(narrowClasses, children)
}

// WrapVerticalSpacing stacks children with a uniform gap.
func WrapVerticalSpacing(children ...Node) Node {
	return wrap(verticalSpacingClasses, children)
}

// WrapBottomPadding adds bottom padding below children.
func WrapBottomPadding(children ...Node) Node {
	return wrap(bottomPaddingClasses, children)
}

// WrapTextDecorations wraps n in a span carrying italic/underline and a
// text size ("sm", "base", "lg", "xl", ...). An empty size adds no class.
func WrapTextDecorations(n Node, italic, underline bool, size string) Node {
	var classes []string
	if italic {
		classes = append(classes, "italic")
	}
	if underline {
		classes = append(classes, "underline")
	}
	if size != "" {
		classes = append(classes, "text-"+size)
	}
	return Node{Kind: KindContainer, Tag: "span", Classes: classes, Children: []Node{n}}
}

// PageTitle renders the page heading.
func PageTitle(title string) Node {
	return Tag("h1", title, "page-title", "text-3xl", "font-bold")
}

// Labels renders each text as a badge.
func Labels(texts ...string) Node {
	items := make([]Node, 0, len(texts))
	for _, t := range texts {
		if t == "" {
			continue
		}
		items = append(items, Tag("span", t, labelClasses...))
	}
	return wrap(labelsClasses, items)
}

func wrap(classes []string, children []Node) Node {
	c := Container(classes, children...)
	if !c.IsEmpty() {
		return c
	}
	// keep the strictest cache directive of the collapsed children
	if m := MaxAge(c); m >= 0 {
		return Empty().WithCache(&CacheDirective{MaxAge: m})
	}
	return Empty()
}
