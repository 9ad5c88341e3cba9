// Package biolink translates category and predicate labels between the
// canonical biolink naming convention and the legacy convention.
//
// Canonical categories are prefixed CamelCase ("biolink:GeneProduct"),
// canonical predicates are prefixed snake_case ("biolink:affects"). Legacy
// labels are bare snake_case ("gene_product", "affects").
//
// The compiler depends only on the Translator interface. RuleTranslator is
// the default implementation: an override table consulted first, then a
// purely lexical rule. Overrides cover names the rule cannot round-trip,
// such as acronyms ("biolink:RNAProduct" <-> "rna_product").
//
// Overrides are YAML documents:
//
//	categories:
//	  biolink:RNAProduct: rna_product
//	predicates:
//	  biolink:related_to: related_to
//
// A default override table is embedded and applied by Default.
package biolink
