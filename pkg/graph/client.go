package graph

// Builder derives renderable relationship graphs from character record
// snapshots. Each build is a pure function of its inputs; a Builder is
// safe for concurrent use.
//
// A Builder should be created using NewBuilder.
type Builder struct {
	familySynonyms []string
}

// NewBuilderParams defines the configuration for creating a Builder.
//
// FamilySynonyms extends the built-in family-relation synonym list with
// localized equivalents; entries are matched case-insensitively as
// substrings of role labels.
type NewBuilderParams struct {
	FamilySynonyms []string
}

// NewBuilder creates a Builder configured with the provided parameters.
//
// Example:
//
//	builder := graph.NewBuilder(graph.NewBuilderParams{
//		FamilySynonyms: []string{"madre", "padre"},
//	})
func NewBuilder(params NewBuilderParams) *Builder {
	return &Builder{
		familySynonyms: params.FamilySynonyms,
	}
}
