package aggregator

// Merge deep-merges incoming into acc and returns the accumulator.
// When both sides hold a map at the same key the maps merge recursively;
// any other collision the incoming value wins, including lists, which
// always replace rather than merge element-wise. Determinism follows
// from the fixed catalog fetch order: reordering the catalog changes
// merge precedence and is a breaking change.
func Merge(acc, incoming map[string]any) map[string]any {
	if acc == nil {
		acc = make(map[string]any, len(incoming))
	}

	for key, value := range incoming {
		if existing, ok := acc[key]; ok {
			em, eok := existing.(map[string]any)
			im, iok := value.(map[string]any)
			if eok && iok {
				acc[key] = Merge(em, im)
				continue
			}
		}
		acc[key] = value
	}

	return acc
}
