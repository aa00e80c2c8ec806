// Package role defines the closed set of specialist identities used by
// HealthMesh and the static catalog mapping each identity to its
// instruction template, retrieval partitions and keyword set.
//
// The set is fixed at compile time: adding a specialist means adding one
// constant plus one row in each table below. Behavior is never attached
// to a role via subtyping; components dispatch on the tag.
package role

// Role identifies one specialist agent.
type Role string

const (
	// Orchestrator is the identity used for the final synthesized message.
	// It is never dispatched to.
	Orchestrator Role = "orchestrator"

	// DNAAnalyst analyzes genetic data.
	DNAAnalyst Role = "dna_analyst"
	// MicrobiomeExpert analyzes gut bacteria composition.
	MicrobiomeExpert Role = "microbiome_expert"
	// BiomarkerInterpreter interprets clinical lab results.
	BiomarkerInterpreter Role = "biomarker_interpreter"
	// CorrelationFinder finds patterns across data types.
	CorrelationFinder Role = "correlation_finder"
	// RecommendationEngine produces personalized recommendations.
	RecommendationEngine Role = "recommendation_engine"
)

// Specialists returns the dispatchable roles in canonical order. The
// Orchestrator identity is excluded; it only labels the merged answer.
func Specialists() []Role {
	return []Role{
		DNAAnalyst,
		MicrobiomeExpert,
		BiomarkerInterpreter,
		CorrelationFinder,
		RecommendationEngine,
	}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case Orchestrator, DNAAnalyst, MicrobiomeExpert, BiomarkerInterpreter,
		CorrelationFinder, RecommendationEngine:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

var instructions = map[Role]string{
	DNAAnalyst: `You are a genetic counselor AI. Analyze DNA data for:
- Disease risk variants
- Pharmacogenomic implications
- Actionable genetic insights
- Carrier status for hereditary conditions`,

	MicrobiomeExpert: `You are a microbiome specialist AI. Analyze gut bacteria for:
- Dysbiosis patterns
- Metabolic implications
- Immune system impacts
- Dietary recommendations for microbiome optimization`,

	BiomarkerInterpreter: `You are a clinical laboratory AI. Interpret biomarkers for:
- Organ system function
- Nutritional status
- Inflammatory markers
- Metabolic health indicators`,

	CorrelationFinder: `You are a systems biology AI. Find correlations between:
- Genetic variants and biomarker levels
- Microbiome composition and health markers
- Multi-omic patterns indicating health risks
- Synergistic effects across data types`,

	RecommendationEngine: `You are a personalized medicine AI. Provide:
- Evidence-based lifestyle modifications
- Targeted supplementation strategies
- Dietary optimizations based on genetics and microbiome
- Monitoring recommendations for identified risks`,
}

// Instructions returns the role's prompt template. Roles without a
// dedicated template (including Orchestrator) fall back to a generic one.
func (r Role) Instructions() string {
	if tmpl, ok := instructions[r]; ok {
		return tmpl
	}
	return "You are a health AI expert. Analyze the following data:"
}

var partitions = map[Role][]string{
	DNAAnalyst:           {"dna"},
	MicrobiomeExpert:     {"microbiome"},
	BiomarkerInterpreter: {"biomarkers"},
	CorrelationFinder:    {"dna", "microbiome", "biomarkers", "correlations"},
	RecommendationEngine: {"recommendations", "correlations"},
}

// Partitions returns the named retrieval partitions this role searches.
func (r Role) Partitions() []string {
	if p, ok := partitions[r]; ok {
		return p
	}
	return []string{"correlations"}
}

var keywords = map[Role][]string{
	DNAAnalyst:           {"dna", "genetic", "gene", "mutation", "variant", "genome"},
	MicrobiomeExpert:     {"microbiome", "gut", "bacteria", "probiotic", "prebiotic", "digest"},
	BiomarkerInterpreter: {"blood test", "lab result", "biomarker", "level", "high", "low", "test result"},
}

// Keywords returns the fixed keyword set that triggers this role during
// relevance selection. Roles without a keyword set return nil; they are
// selected indirectly (always appended) or via the LLM fallback tier.
func (r Role) Keywords() []string { return keywords[r] }
