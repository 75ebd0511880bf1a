package identity

import (
	"context"
	"strings"
	"testing"

	"PropSync/internal/model"

	"github.com/sirupsen/logrus"
)

type fakeStore struct {
	sourceMap  map[string]string // "tag/id" -> canonical
	candidates []Candidate

	created    []model.PlayerIdentity
	bound      []string // canonical ids bound via BindSource
	unresolved []model.UnresolvedIdentity
}

func newFakeStore() *fakeStore {
	return &fakeStore{sourceMap: make(map[string]string)}
}

func (f *fakeStore) FindCanonicalBySource(_ context.Context, tag, id string) (string, error) {
	return f.sourceMap[tag+"/"+id], nil
}

func (f *fakeStore) ListCandidates(_ context.Context, league, normalizedName string) ([]Candidate, error) {
	var out []Candidate
	for _, c := range f.candidates {
		if c.NormalizedName == normalizedName {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) BindSource(_ context.Context, tag, id, canonical string) error {
	f.sourceMap[tag+"/"+id] = canonical
	f.bound = append(f.bound, canonical)
	return nil
}

func (f *fakeStore) CreateIdentity(_ context.Context, identity model.PlayerIdentity, tag, id string) error {
	f.created = append(f.created, identity)
	f.sourceMap[tag+"/"+id] = identity.CanonicalPlayerID
	return nil
}

func (f *fakeStore) FlagUnresolved(_ context.Context, row model.UnresolvedIdentity) error {
	f.unresolved = append(f.unresolved, row)
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestResolveExistingSourceMapping(t *testing.T) {
	store := newFakeStore()
	store.sourceMap["sgo/player-9"] = "canonical-9"
	r := NewResolver(store, nil, testLogger())

	got, err := r.Resolve(context.Background(), "sgo", "player-9", "Whoever", "BUF", "NFL")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "canonical-9" {
		t.Errorf("Resolve = %q, want canonical-9", got)
	}
	if len(store.created) != 0 || len(store.bound) != 0 {
		t.Error("mapped lookup should not create or bind anything")
	}
}

func TestResolveBindsSingleCandidate(t *testing.T) {
	store := newFakeStore()
	store.candidates = []Candidate{
		{CanonicalPlayerID: "canonical-1", NormalizedName: "josh allen", Team: "BUF"},
	}
	r := NewResolver(store, nil, testLogger())

	got, err := r.Resolve(context.Background(), "statfeed", "espn-17", "Josh Allen", "BUF", "NFL")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "canonical-1" {
		t.Errorf("Resolve = %q, want canonical-1", got)
	}
	if len(store.bound) != 1 || store.bound[0] != "canonical-1" {
		t.Errorf("expected one binding to canonical-1, got %v", store.bound)
	}
	if len(store.created) != 0 {
		t.Error("single-candidate match must not create a new identity")
	}
}

func TestResolveCreatesNewIdentity(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store, nil, testLogger())

	got, err := r.Resolve(context.Background(), "sgo", "NEW_GUY_1_NFL", "New Guy", "MIA", "NFL")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one created identity, got %d", len(store.created))
	}
	created := store.created[0]
	if created.CanonicalPlayerID != got {
		t.Errorf("returned id %q does not match created id %q", got, created.CanonicalPlayerID)
	}
	if created.Provisional {
		t.Error("fresh identity must not be provisional")
	}
	if created.NormalizedName != "new guy" || created.Team != "MIA" {
		t.Errorf("created identity = %+v", created)
	}

	// the same sighting resolves through the mapping on the second pass
	again, err := r.Resolve(context.Background(), "sgo", "NEW_GUY_1_NFL", "New Guy", "MIA", "NFL")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if again != got {
		t.Errorf("second Resolve = %q, want %q", again, got)
	}
	if len(store.created) != 1 {
		t.Error("second Resolve must not create another identity")
	}
}

func TestResolveAmbiguityCreatesProvisional(t *testing.T) {
	store := newFakeStore()
	store.candidates = []Candidate{
		{CanonicalPlayerID: "canonical-a", NormalizedName: "chris jones", Team: "KC"},
		{CanonicalPlayerID: "canonical-b", NormalizedName: "chris jones", Team: "LV"},
	}
	r := NewResolver(store, nil, testLogger())

	// empty team matches both candidates
	got, err := r.Resolve(context.Background(), "sgo", "CHRIS_JONES_1_NFL", "Chris Jones", "", "NFL")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "sgo:CHRIS_JONES_1_NFL"; got != want {
		t.Errorf("Resolve = %q, want provisional id %q", got, want)
	}
	if len(store.created) != 1 || !store.created[0].Provisional {
		t.Fatalf("expected one provisional identity, got %+v", store.created)
	}
	if len(store.unresolved) != 1 {
		t.Fatalf("expected one unresolved flag, got %d", len(store.unresolved))
	}
	flag := store.unresolved[0]
	if flag.Candidates != 2 || flag.ProvisionalID != got {
		t.Errorf("unresolved flag = %+v", flag)
	}
	if !strings.Contains(string(flag.Payload), "chris") && !strings.Contains(string(flag.Payload), "Chris") {
		t.Errorf("payload missing sighting detail: %s", flag.Payload)
	}
}

func TestResolveEmptyName(t *testing.T) {
	r := NewResolver(newFakeStore(), nil, testLogger())
	if _, err := r.Resolve(context.Background(), "sgo", "X_1", "  ", "BUF", "NFL"); err == nil {
		t.Error("expected error for empty player name")
	}
}
