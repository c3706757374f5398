// internal/app/features/grouppage/builder.go
package grouppage

import (
	"context"
	"time"

	"github.com/dalemusser/grouppages/internal/app/system/htmlsanitize"
	"github.com/dalemusser/grouppages/internal/app/system/layout"
	"github.com/dalemusser/grouppages/internal/domain/models"
)

// DateLayout is the long date shown under the group title.
const DateLayout = "January 2, 2006"

// LabelSource resolves a bundle machine name to its human label.
type LabelSource interface {
	Label(ctx context.Context, bundle string) (string, error)
}

// MarkupSource builds the membership fragment for a viewer.
type MarkupSource interface {
	Build(ctx context.Context, group models.Group, viewer models.Viewer, destination string) (layout.Node, error)
}

// Builder assembles the full group page fragment.
type Builder struct {
	labels LabelSource
	markup MarkupSource
	loc    *time.Location
}

// NewBuilder constructs a Builder. A nil loc formats dates in UTC.
func NewBuilder(labels LabelSource, markup MarkupSource, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{labels: labels, markup: markup, loc: loc}
}

// BuildHeader returns the title, the bundle label badge and the long-form
// date, stacked and narrowed.
func (b *Builder) BuildHeader(ctx context.Context, g models.Group) (layout.Node, error) {
	label, err := b.labels.Label(ctx, g.Bundle)
	if err != nil {
		return layout.Node{}, err
	}

	date := g.DisplayTimestamp().In(b.loc).Format(DateLayout)

	return layout.WrapNarrow(
		layout.WrapVerticalSpacing(
			layout.PageTitle(g.Label()),
			layout.Labels(label),
			layout.WrapTextDecorations(layout.Text(date), false, false, "lg"),
		),
	), nil
}

// BuildFull returns the header, the body and the membership fragment
// inside bottom padding.
func (b *Builder) BuildFull(ctx context.Context, g models.Group, viewer models.Viewer, destination string) (layout.Node, error) {
	header, err := b.BuildHeader(ctx, g)
	if err != nil {
		return layout.Node{}, err
	}

	body := layout.Empty()
	if g.Body != "" {
		body = layout.RawHTML(htmlsanitize.PrepareForDisplay(g.Body))
	}

	og, err := b.markup.Build(ctx, g, viewer, destination)
	if err != nil {
		return layout.Node{}, err
	}

	return layout.WrapBottomPadding(
		layout.WrapWide(header),
		layout.WrapWide(body),
		og,
	), nil
}
