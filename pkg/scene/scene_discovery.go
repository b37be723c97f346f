package scene

import (
	"sort"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Built-in scene IDs
const (
	RandomSpheres = "random-spheres"
	ThreeSpheres  = "three-spheres"
	SingleSphere  = "single-sphere"
)

// SceneInfo represents a registered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id" yaml:"id"`                   // Unique identifier
	DisplayName string `json:"displayName" yaml:"displayName"` // Human readable name
	Description string `json:"description" yaml:"description"` // Optional description
}

// Builder constructs a scene; scenes with random layout draw from sampler
type Builder func(sampler core.Sampler) (*Scene, error)

type registryEntry struct {
	info  SceneInfo
	build Builder
}

// Registry maps scene IDs to their builders
type Registry struct {
	entries map[string]registryEntry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// DefaultRegistry returns a registry holding every built-in scene
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SceneInfo{
		ID:          RandomSpheres,
		DisplayName: "Random Spheres",
		Description: "Ground sphere with a grid of random small spheres and three large feature spheres",
	}, NewRandomSpheresScene)
	r.Register(SceneInfo{
		ID:          ThreeSpheres,
		DisplayName: "Three Spheres",
		Description: "Diffuse, glass and metal spheres on a large ground sphere",
	}, func(core.Sampler) (*Scene, error) { return NewThreeSpheresScene() })
	r.Register(SceneInfo{
		ID:          SingleSphere,
		DisplayName: "Single Sphere",
		Description: "One diffuse sphere under the sky",
	}, func(core.Sampler) (*Scene, error) { return NewSingleSphereScene() })
	return r
}

// Register adds or replaces a scene
func (r *Registry) Register(info SceneInfo, build Builder) {
	r.entries[info.ID] = registryEntry{info: info, build: build}
}

// Lookup builds the scene registered under id
func (r *Registry) Lookup(id string, sampler core.Sampler) (*Scene, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrUnknownScene, "%q (available: %v)", id, r.Names())
	}
	return entry.build(sampler)
}

// Names returns the registered scene IDs in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for id := range r.entries {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// List returns the metadata of every registered scene, sorted by ID
func (r *Registry) List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(r.entries))
	for _, id := range r.Names() {
		infos = append(infos, r.entries[id].info)
	}
	return infos
}
