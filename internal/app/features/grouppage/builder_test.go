package grouppage_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/grouppages/internal/app/features/grouppage"
	"github.com/dalemusser/grouppages/internal/app/system/layout"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeLabels struct {
	labels map[string]string
	err    error
}

func (f fakeLabels) Label(_ context.Context, bundle string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if l, ok := f.labels[bundle]; ok {
		return l, nil
	}
	return bundle, nil
}

type fakeMarkup struct {
	node layout.Node
	err  error
	dest string
}

func (f *fakeMarkup) Build(_ context.Context, _ models.Group, _ models.Viewer, destination string) (layout.Node, error) {
	f.dest = destination
	return f.node, f.err
}

func sportsClub() models.Group {
	return models.Group{
		ID:        primitive.NewObjectID(),
		OwnerID:   primitive.NewObjectID(),
		Title:     "Sports Club",
		Bundle:    "group",
		Body:      "<p>Weekly matches</p><script>alert(1)</script>",
		Published: true,
		CreatedAt: time.Date(2023, 3, 9, 10, 0, 0, 0, time.UTC),
	}
}

func render(t *testing.T, n layout.Node) string {
	t.Helper()
	h, err := layout.Render(n)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return string(h)
}

func TestBuildHeader_UsesCreatedAtWithoutOverride(t *testing.T) {
	b := grouppage.NewBuilder(fakeLabels{labels: map[string]string{"group": "Group"}}, &fakeMarkup{}, nil)

	n, err := b.BuildHeader(context.Background(), sportsClub())
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}
	out := render(t, n)

	for _, want := range []string{
		`<h1 class="page-title text-3xl font-bold">Sports Club</h1>`,
		`>Group</span>`,
		`<span class="text-lg">March 9, 2023</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q in %s", want, out)
		}
	}
	if !strings.HasPrefix(out, `<div class="container-narrow`) {
		t.Errorf("header should be wrapped narrow, got %s", out)
	}
}

func TestBuildHeader_PublishDateOverride(t *testing.T) {
	b := grouppage.NewBuilder(fakeLabels{}, &fakeMarkup{}, nil)
	g := sportsClub()
	pd := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g.PublishDate = &pd

	n, err := b.BuildHeader(context.Background(), g)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}
	if out := render(t, n); !strings.Contains(out, "June 1, 2024") {
		t.Errorf("expected publish date, got %s", out)
	}
}

func TestBuildHeader_SiteTimeZone(t *testing.T) {
	eastern := time.FixedZone("EDT", -4*60*60)
	b := grouppage.NewBuilder(fakeLabels{}, &fakeMarkup{}, eastern)
	g := sportsClub()
	pd := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	g.PublishDate = &pd

	n, err := b.BuildHeader(context.Background(), g)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}
	if out := render(t, n); !strings.Contains(out, "May 31, 2024") {
		t.Errorf("expected date in site zone, got %s", out)
	}
}

func TestBuildHeader_MissingNodeTypeFallsBackToBundle(t *testing.T) {
	b := grouppage.NewBuilder(fakeLabels{}, &fakeMarkup{}, nil)

	n, err := b.BuildHeader(context.Background(), sportsClub())
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}
	if out := render(t, n); !strings.Contains(out, ">group</span>") {
		t.Errorf("expected bundle name as label, got %s", out)
	}
}

func TestBuildHeader_LabelErrorPropagates(t *testing.T) {
	want := errors.New("label store down")
	b := grouppage.NewBuilder(fakeLabels{err: want}, &fakeMarkup{}, nil)

	if _, err := b.BuildHeader(context.Background(), sportsClub()); !errors.Is(err, want) {
		t.Errorf("err: got %v, want %v", err, want)
	}
}

func TestBuildFull_ComposesSections(t *testing.T) {
	link := layout.Link("Join", "/group/node/1/subscribe/default", []string{"subscribe"}, "og_group").WithCache(layout.NoCache())
	markup := &fakeMarkup{node: layout.WrapWide(link)}
	b := grouppage.NewBuilder(fakeLabels{}, markup, nil)

	n, err := b.BuildFull(context.Background(), sportsClub(), models.Anonymous(), "/node/abc?x=1")
	if err != nil {
		t.Fatalf("BuildFull failed: %v", err)
	}
	if markup.dest != "/node/abc?x=1" {
		t.Errorf("destination: got %q", markup.dest)
	}
	if got := layout.MaxAge(n); got != 0 {
		t.Errorf("MaxAge: got %d, want 0", got)
	}
	if _, ok := layout.Find(n, "og_group"); !ok {
		t.Error("expected og_group link in tree")
	}

	out := render(t, n)
	if !strings.HasPrefix(out, `<div class="pb-8 md:pb-12">`) {
		t.Errorf("expected bottom padding wrapper, got %s", out)
	}
	if !strings.Contains(out, "<p>Weekly matches</p>") {
		t.Errorf("expected body, got %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("body must be sanitized, got %s", out)
	}
	if strings.Index(out, "Sports Club") > strings.Index(out, "Weekly matches") {
		t.Error("header must come before body")
	}
	if strings.Index(out, "Weekly matches") > strings.Index(out, `id="og_group"`) {
		t.Error("body must come before membership link")
	}
}

func TestBuildFull_MarkupErrorPropagates(t *testing.T) {
	want := errors.New("membership lookup failed")
	b := grouppage.NewBuilder(fakeLabels{}, &fakeMarkup{err: want}, nil)

	if _, err := b.BuildFull(context.Background(), sportsClub(), models.Anonymous(), "/"); !errors.Is(err, want) {
		t.Errorf("err: got %v, want %v", err, want)
	}
}
