package models

import (
	"fmt"
	"regexp"
	"slices"
)

var elementNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type FormOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormElement is a named field descriptor consumed by the rendering layer.
type FormElement struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Title      string            `json:"title,omitempty"`
	Required   bool              `json:"required,omitempty"`
	Markup     string            `json:"markup,omitempty"`
	Options    []FormOption      `json:"options,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []*FormElement    `json:"children,omitempty"`
}

// FormState carries the values the composite form is being built for.
type FormState struct {
	WebformID   string            `json:"webformId"`
	FrequencyID string            `json:"frequencyId"`
	Values      map[string]string `json:"values,omitempty"`
}

// CompositeForm is shared by every provider of a webform. Providers attach
// their elements, client libraries and js views to it.
type CompositeForm struct {
	Elements  []*FormElement    `json:"elements"`
	Libraries []string          `json:"libraries"`
	JSViews   map[string]string `json:"jsViews"`
}

func NewCompositeForm() *CompositeForm {
	return &CompositeForm{
		JSViews: make(map[string]string),
	}
}

func (f *CompositeForm) AddElement(el *FormElement) {
	f.Elements = append(f.Elements, el)
}

// Element returns the top level element with the given name.
func (f *CompositeForm) Element(name string) *FormElement {
	for _, el := range f.Elements {
		if el.Name == name {
			return el
		}
	}

	return nil
}

func (f *CompositeForm) AttachLibrary(library string) {
	if slices.Contains(f.Libraries, library) {
		return
	}

	f.Libraries = append(f.Libraries, library)
}

func (f *CompositeForm) SetJSView(providerID, view string) {
	f.JSViews[providerID] = view
}

// Validate checks that element names are well formed and unique among siblings.
func (f *CompositeForm) Validate() error {
	return validateElements(f.Elements, "")
}

func validateElements(elements []*FormElement, parent string) error {
	seen := make(map[string]struct{}, len(elements))

	for _, el := range elements {
		path := el.Name
		if parent != "" {
			path = parent + "." + el.Name
		}

		if !elementNamePattern.MatchString(el.Name) {
			return fmt.Errorf("%w: malformed form element name %q", ErrConfiguration, path)
		}

		if _, ok := seen[el.Name]; ok {
			return fmt.Errorf("%w: duplicate form element %q", ErrConfiguration, path)
		}
		seen[el.Name] = struct{}{}

		if err := validateElements(el.Children, path); err != nil {
			return err
		}
	}

	return nil
}
