package plugins

import (
	"reflectdoc/internal/converter"
	"reflectdoc/internal/models"
)

// HierarchyPlugin adds the reverse of every linked extended type: a struct
// embedding Base makes Base extended by that struct. It runs once every
// reference has been resolved.
type HierarchyPlugin struct{}

func NewHierarchyPlugin() *HierarchyPlugin {
	return &HierarchyPlugin{}
}

func (p *HierarchyPlugin) Name() string { return "hierarchy" }

func (p *HierarchyPlugin) Attach(s converter.Subscriber) {
	s.On(converter.EventResolveEnd, func(c *converter.Context, _ converter.Event) {
		project := c.Project()
		for _, r := range project.Ordered() {
			for _, t := range r.ExtendedTypes {
				ref, ok := referenced(t)
				if !ok || ref.TargetID == 0 {
					continue
				}
				target, ok := project.Get(ref.TargetID)
				if !ok {
					continue
				}
				target.ExtendedBy = append(target.ExtendedBy, models.ReferenceType{
					Name:     r.Name,
					TargetID: r.ID,
				})
			}
		}
	})
}

func referenced(t models.Type) (models.ReferenceType, bool) {
	switch tt := t.(type) {
	case models.ReferenceType:
		return tt, true
	case models.PointerType:
		return referenced(tt.Target)
	}
	return models.ReferenceType{}, false
}
