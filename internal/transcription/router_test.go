package transcription

import (
	"context"
	"errors"
	"testing"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

type fakeProvider struct {
	family    string
	ids       []string
	usableErr error
}

func (f *fakeProvider) Family() string { return f.family }

func (f *fakeProvider) Models() []ModelSpec {
	specs := make([]ModelSpec, 0, len(f.ids))
	for _, id := range f.ids {
		specs = append(specs, ModelSpec{Family: f.family, ID: id})
	}
	return specs
}

func (f *fakeProvider) Usable() error { return f.usableErr }

func (f *fakeProvider) Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error) {
	return &types.TranscriptionResult{Text: "from " + f.family}, nil
}

func TestRegistryRejectsDuplicateModelID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeProvider{family: "alpha", ids: []string{"x", "y"}}); err != nil {
		t.Fatal(err)
	}
	err := r.Register(&fakeProvider{family: "beta", ids: []string{"z", "x"}})
	if err == nil {
		t.Fatal("expected duplicate model id to be rejected")
	}

	// The failed registration must not leave partial state behind.
	if _, err := r.Resolve("z"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("Resolve(z) after failed register = %v, want ErrUnknownModel", err)
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	alpha := &fakeProvider{family: "alpha", ids: []string{"x"}}
	if err := r.Register(alpha); err != nil {
		t.Fatal(err)
	}

	p, err := r.Resolve("x")
	if err != nil {
		t.Fatal(err)
	}
	if p.Family() != "alpha" {
		t.Errorf("resolved family = %q, want alpha", p.Family())
	}

	if _, err := r.Resolve("nope"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("Resolve(nope) = %v, want ErrUnknownModel", err)
	}
}

func TestRegistryTranscribeStampsModelID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeProvider{family: "alpha", ids: []string{"x"}}); err != nil {
		t.Fatal(err)
	}

	result, err := r.Transcribe(context.Background(), Request{AudioPath: "a.mp3", ModelID: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if result.ModelID != "x" {
		t.Errorf("ModelID = %q, want x", result.ModelID)
	}
}

func TestAvailableModelsFiltersUnusable(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeProvider{family: "alpha", ids: []string{"b", "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&fakeProvider{family: "beta", ids: []string{"c"}, usableErr: errors.New("no key")}); err != nil {
		t.Fatal(err)
	}

	available := r.AvailableModels()
	if _, ok := available["beta"]; ok {
		t.Error("unusable provider listed in AvailableModels")
	}
	ids := available["alpha"]
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("alpha models = %v, want sorted [a b]", ids)
	}

	// Unusable providers still show up in Families, with their error.
	families := r.Families()
	if families["beta"] == nil {
		t.Error("Families should report beta's usability error")
	}
	if families["alpha"] != nil {
		t.Errorf("Families[alpha] = %v, want nil", families["alpha"])
	}
}
