package transcription

import (
	"context"
	"fmt"
	"sort"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// Registry routes model identifiers to provider adapters. Providers are
// registered once at startup; model id sets must be pairwise disjoint.
type Registry struct {
	providers []Provider
	byModel   map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{byModel: make(map[string]Provider)}
}

// Register adds a provider. A model id already claimed by another
// provider is a configuration error, rejected here rather than resolved
// ambiguously at call time.
func (r *Registry) Register(p Provider) error {
	for _, spec := range p.Models() {
		if owner, exists := r.byModel[spec.ID]; exists {
			return fmt.Errorf("model %q claimed by both %s and %s",
				spec.ID, owner.Family(), p.Family())
		}
	}
	for _, spec := range p.Models() {
		r.byModel[spec.ID] = p
	}
	r.providers = append(r.providers, p)
	return nil
}

// Resolve returns the provider that owns modelID, by exact match.
func (r *Registry) Resolve(modelID string) (Provider, error) {
	p, ok := r.byModel[modelID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, modelID)
	}
	return p, nil
}

// Spec returns the ModelSpec for modelID.
func (r *Registry) Spec(modelID string) (ModelSpec, error) {
	p, err := r.Resolve(modelID)
	if err != nil {
		return ModelSpec{}, err
	}
	spec, _ := findSpec(p.Models(), modelID)
	return spec, nil
}

// Transcribe resolves the request's model and dispatches to its adapter.
// Adapter errors propagate unmodified; the registry only adds
// unknown-model errors.
func (r *Registry) Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error) {
	p, err := r.Resolve(req.ModelID)
	if err != nil {
		return nil, err
	}
	result, err := p.Transcribe(ctx, req)
	if err != nil {
		return nil, err
	}
	result.ModelID = req.ModelID
	return result, nil
}

// AvailableModels reports, per provider family, the model ids whose
// adapter's prerequisite check currently passes. Discovery/help only;
// dispatch goes through Resolve.
func (r *Registry) AvailableModels() map[string][]string {
	out := make(map[string][]string)
	for _, p := range r.providers {
		if p.Usable() != nil {
			continue
		}
		var ids []string
		for _, spec := range p.Models() {
			ids = append(ids, spec.ID)
		}
		sort.Strings(ids)
		out[p.Family()] = ids
	}
	return out
}

// Families lists all registered families with their usability status.
func (r *Registry) Families() map[string]error {
	out := make(map[string]error)
	for _, p := range r.providers {
		out[p.Family()] = p.Usable()
	}
	return out
}
