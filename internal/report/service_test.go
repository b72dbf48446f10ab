package report

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"usage-report/internal/model"
	"usage-report/internal/storage"
	"usage-report/internal/usage"
)

const sampleLog = `7;1;01/03/2024;09:00:00
7;0;01/03/2024;10:00:00
7;1;01/03/2024;14:00:00
7;0;01/03/2024;15:00:00
8;1;01/03/2024;09:00:00
8;0;01/03/2024;09:05:00
7;x;01/03/2024;16:00:00
`

type fakeRenderer struct {
	err   error
	specs []usage.ChartSpec
	panic bool
}

func (f *fakeRenderer) Render(spec usage.ChartSpec) ([]byte, []byte, error) {
	if f.panic {
		panic("renderer exploded")
	}
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return nil, nil, f.err
	}
	return []byte("png"), []byte("%PDF"), nil
}

type fakePublisher struct {
	mu        sync.Mutex
	err       error
	published []*storage.Artifact
}

func (f *fakePublisher) PublishSummary(_ context.Context, a *storage.Artifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, a)
	return f.err
}

func dayRange(t *testing.T) model.TimeRange {
	t.Helper()
	r, err := model.ParseTimeRange("2024-03-01", "2024-03-02", false)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newTestService(r Renderer, opts ...Option) (*Service, *storage.MemoryStore) {
	store := storage.NewMemoryStore(0)
	return NewService(store, r, nil, opts...), store
}

func TestGenerate(t *testing.T) {
	renderer := &fakeRenderer{}
	pub := &fakePublisher{}
	created := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	svc, store := newTestService(renderer, WithPublisher(pub), WithClock(func() time.Time { return created }))
	defer store.Close()

	res, err := svc.Generate(context.Background(), Request{
		CSV:     strings.NewReader(sampleLog),
		EntryID: "7",
		Range:   dayRange(t),
		Motor:   model.Motor{PowerCV: 2},
		Tariff:  model.Tariff{PricePerKWh: 0.5},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	a := res.Artifact
	if a.ID == "" || !a.CreatedAt.Equal(created) {
		t.Fatalf("artifact identity not set: %+v", a)
	}
	if a.Summary.TotalMinutes != 120 || a.Summary.EnergyKWh != 2.94 {
		t.Fatalf("summary = %+v", a.Summary)
	}
	if a.Hourly[9] != time.Hour || a.Hourly[14] != time.Hour {
		t.Fatalf("hourly = %v", a.Hourly)
	}
	if len(a.Warnings) != 1 {
		t.Fatalf("warnings = %v, want the invalid state row", a.Warnings)
	}
	if string(a.PDF) != "%PDF" || string(a.PNG) != "png" {
		t.Fatalf("documents not attached")
	}
	if len(renderer.specs) != 1 || res.Chart.Bars[9].Minutes != 60 {
		t.Fatalf("renderer got %d specs", len(renderer.specs))
	}

	stored, err := svc.Artifact(context.Background(), a.ID)
	if err != nil || stored != a {
		t.Fatalf("Artifact(%s) = %v, %v", a.ID, stored, err)
	}
	latest, err := svc.Latest(context.Background())
	if err != nil || latest.ID != a.ID {
		t.Fatalf("Latest = %v, %v", latest, err)
	}
	if len(pub.published) != 1 || pub.published[0].ID != a.ID {
		t.Fatalf("summary not published")
	}
}

func TestGenerateUniqueIDs(t *testing.T) {
	svc, store := newTestService(&fakeRenderer{})
	defer store.Close()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		res, err := svc.Generate(context.Background(), Request{
			CSV: strings.NewReader(sampleLog), EntryID: "8", Range: dayRange(t),
		})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[res.Artifact.ID] {
			t.Fatalf("duplicate id %s", res.Artifact.ID)
		}
		seen[res.Artifact.ID] = true
	}
}

func TestGenerateErrors(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		renderer *fakeRenderer
		req      Request
		kind     model.ErrorKind
	}{
		{
			name: "missing csv",
			req:  Request{EntryID: "7", Range: dayRange(t)},
			kind: model.KindInvalidInput,
		},
		{
			name: "empty csv",
			req:  Request{CSV: strings.NewReader(""), EntryID: "7", Range: dayRange(t)},
			kind: model.KindNoData,
		},
		{
			name: "unknown channel",
			req:  Request{CSV: strings.NewReader(sampleLog), EntryID: "99", Range: dayRange(t)},
			kind: model.KindNoData,
		},
		{
			name: "zero length range",
			req:  Request{CSV: strings.NewReader(sampleLog), EntryID: "7", Range: model.TimeRange{Start: day, End: day}},
			kind: model.KindInvalidRange,
		},
		{
			name:     "render failure",
			renderer: &fakeRenderer{err: errors.New("no fonts")},
			req:      Request{CSV: strings.NewReader(sampleLog), EntryID: "7", Range: dayRange(t)},
			kind:     model.KindInternal,
		},
		{
			name:     "render panic",
			renderer: &fakeRenderer{panic: true},
			req:      Request{CSV: strings.NewReader(sampleLog), EntryID: "7", Range: dayRange(t)},
			kind:     model.KindInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.renderer
			if r == nil {
				r = &fakeRenderer{}
			}
			svc, store := newTestService(r)
			defer store.Close()

			res, err := svc.Generate(context.Background(), tt.req)
			if err == nil {
				t.Fatalf("expected error, got %+v", res)
			}
			if got := model.KindOf(err); got != tt.kind {
				t.Fatalf("kind = %s, want %s (%v)", got, tt.kind, err)
			}
			if _, err := svc.Latest(context.Background()); model.KindOf(err) != model.KindNotFound {
				t.Fatalf("failed generation stored an artifact")
			}
		})
	}
}

func TestGeneratePublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, store := newTestService(&fakeRenderer{}, WithPublisher(pub))
	defer store.Close()

	_, err := svc.Generate(context.Background(), Request{
		CSV: strings.NewReader(sampleLog), EntryID: "7", Range: dayRange(t),
	})
	if err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestArtifactNotFound(t *testing.T) {
	svc, store := newTestService(&fakeRenderer{})
	defer store.Close()

	_, err := svc.Artifact(context.Background(), "nope")
	if model.KindOf(err) != model.KindNotFound {
		t.Fatalf("got %v, want %s", err, model.KindNotFound)
	}
}

func TestChannels(t *testing.T) {
	svc, store := newTestService(nil)
	defer store.Close()

	ranked, warnings, err := svc.Channels(context.Background(), strings.NewReader(sampleLog), dayRange(t))
	if err != nil {
		t.Fatalf("Channels: %v", err)
	}
	if len(ranked) != 2 || ranked[0].EntryID != "7" || ranked[1].EntryID != "8" {
		t.Fatalf("ranked = %+v", ranked)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
}
