package providers

import (
	"fmt"
	"sort"
)

// Registry maps backend names to constructed generators. Selection happens
// through this explicit table; there is no string branching at call sites.
type Registry struct {
	text        map[string]TextGenerator
	image       map[string]ImageGenerator
	audio       map[string]AudioGenerator
	defaultText string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		text:  make(map[string]TextGenerator),
		image: make(map[string]ImageGenerator),
		audio: make(map[string]AudioGenerator),
	}
}

// RegisterText adds a text backend. The first registered backend becomes the default.
func (r *Registry) RegisterText(generator TextGenerator) {
	if len(r.text) == 0 {
		r.defaultText = generator.Name()
	}

	r.text[generator.Name()] = generator
}

func (r *Registry) RegisterImage(generator ImageGenerator) {
	r.image[generator.Name()] = generator
}

func (r *Registry) RegisterAudio(generator AudioGenerator) {
	r.audio[generator.Name()] = generator
}

// Text returns the named text backend, or the default when name is empty.
func (r *Registry) Text(name string) (TextGenerator, error) {
	if name == "" {
		name = r.defaultText
	}

	generator, ok := r.text[name]
	if !ok {
		return nil, fmt.Errorf("%w: text backend %q", ErrUnknownProvider, name)
	}

	return generator, nil
}

// Image returns the named image backend; with one registered backend an
// empty name selects it.
func (r *Registry) Image(name string) (ImageGenerator, error) {
	if name == "" && len(r.image) == 1 {
		for _, generator := range r.image {
			return generator, nil
		}
	}

	generator, ok := r.image[name]
	if !ok {
		return nil, fmt.Errorf("%w: image backend %q", ErrUnknownProvider, name)
	}

	return generator, nil
}

// Audio returns the named audio backend; with one registered backend an
// empty name selects it.
func (r *Registry) Audio(name string) (AudioGenerator, error) {
	if name == "" && len(r.audio) == 1 {
		for _, generator := range r.audio {
			return generator, nil
		}
	}

	generator, ok := r.audio[name]
	if !ok {
		return nil, fmt.Errorf("%w: audio backend %q", ErrUnknownProvider, name)
	}

	return generator, nil
}

// TextBackends lists the registered text backend names, sorted.
func (r *Registry) TextBackends() []string {
	names := make([]string, 0, len(r.text))
	for name := range r.text {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
