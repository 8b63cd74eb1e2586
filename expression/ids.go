package expression

import "strings"

// EnsemblGenePrefix marks identifiers that carry a release version suffix,
// e.g. ENSG00000141736.14.
const EnsemblGenePrefix = "ENSG"

// Identifier namespaces reported for a matrix.
const (
	NamespaceAuto    = "auto"
	NamespaceEnsembl = "ensembl"
	NamespaceSymbol  = "symbol"
)

// namespaceSampleSize caps how many identifiers GuessNamespace looks at.
const namespaceSampleSize = 1000

// StripVersion truncates Ensembl gene identifiers at the first '.'. Other
// identifiers are returned unchanged.
func StripVersion(id string) string {
	if !strings.HasPrefix(id, EnsemblGenePrefix) {
		return id
	}
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}

	return id
}

// StripVersions applies StripVersion to each identifier, returning a new slice.
func StripVersions(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = StripVersion(id)
	}

	return out
}

// GuessNamespace returns NamespaceEnsembl when Ensembl identifiers are a strict
// majority of the first 1000 identifiers, and NamespaceSymbol otherwise.
func GuessNamespace(ids []string) string {
	if len(ids) > namespaceSampleSize {
		ids = ids[:namespaceSampleSize]
	}

	ens := 0
	for _, id := range ids {
		if strings.HasPrefix(id, EnsemblGenePrefix) {
			ens++
		}
	}

	if ens > len(ids)-ens {
		return NamespaceEnsembl
	}

	return NamespaceSymbol
}
