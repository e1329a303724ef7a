// Package plugins holds the event subscribers that enrich reflections after
// the node converters created them.
package plugins

import "reflectdoc/internal/converter"

// All returns the default plugins in subscription order.
func All() []converter.Component {
	return []converter.Component{
		NewCommentPlugin(),
		NewSourcePlugin(),
		NewExternalPlugin(),
		NewReferencePlugin(),
		NewHierarchyPlugin(),
		NewGroupPlugin(),
	}
}
