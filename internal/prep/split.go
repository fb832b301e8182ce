package prep

import (
	"math/rand"
	"sort"

	"github.com/jfwalther/screwdata/pkg/core"
)

// Split partitions a dataset into train and test subsets at the given
// ratio. The shuffle is driven entirely by the seed: the same seed on the
// same dataset always yields the same partition. With stratify set, the
// shuffle and cut happen per label, so label proportions survive the split
// within one record of rounding. The plain (non-stratified) split is the
// default behavior of the pipeline.
func Split(dataset core.Dataset, ratio float64, seed int64, stratify bool) (train, test core.Dataset, err error) {
	if len(dataset) == 0 || ratio <= 0 || ratio >= 1 {
		return nil, nil, &core.InvalidSplitRatioError{Ratio: ratio, Size: len(dataset)}
	}

	rng := rand.New(rand.NewSource(seed))

	if !stratify {
		perm := rng.Perm(len(dataset))
		cut := int(float64(len(dataset)) * ratio)
		return pick(dataset, perm[:cut]), pick(dataset, perm[cut:]), nil
	}

	groups := make(map[string][]int)
	for i, series := range dataset {
		groups[series.Label] = append(groups[series.Label], i)
	}

	// Deterministic label order, the map iteration order is not.
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		indices := groups[label]
		rng.Shuffle(len(indices), func(a, b int) {
			indices[a], indices[b] = indices[b], indices[a]
		})
		cut := int(float64(len(indices)) * ratio)
		train = append(train, pick(dataset, indices[:cut])...)
		test = append(test, pick(dataset, indices[cut:])...)
	}

	return train, test, nil
}

func pick(dataset core.Dataset, indices []int) core.Dataset {
	out := make(core.Dataset, len(indices))
	for i, idx := range indices {
		out[i] = dataset[idx]
	}
	return out
}
