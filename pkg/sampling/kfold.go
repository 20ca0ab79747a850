// Package sampling splits objects of an information table into folds.
package sampling

import (
	"math/rand"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
)

// Fold is one training/validation split. Indices are ascending.
type Fold struct {
	Training   []int
	Validation []int
}

// StratifiedKFold splits objects into k folds keeping the proportion of
// decisions in each validation set.
//
// Objects are grouped by their decision in the order of first appearance,
// each group is shuffled with a PRNG seeded by seed, then objects are dealt
// to folds one by one, continuing across groups.
// The same arguments always yield the same folds.
func StratifiedKFold(decisions []string, k int, seed int64) ([]Fold, error) {
	n := len(decisions)
	if k < 2 {
		return nil, kerr.WrongParameter("there must be at least 2 folds, but %d is given", k)
	}
	if n < k {
		return nil, kerr.WrongParameter("%d folds is more than %d objects", k, n)
	}

	order := []string{}
	strata := map[string][]int{}
	for i, d := range decisions {
		if _, ok := strata[d]; !ok {
			order = append(order, d)
		}
		strata[d] = append(strata[d], i)
	}

	rnd := rand.New(rand.NewSource(seed))
	assigned := make([]int, n)
	next := 0
	for _, d := range order {
		members := strata[d]
		rnd.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		for _, m := range members {
			assigned[m] = next
			next = (next + 1) % k
		}
	}

	folds := make([]Fold, k)
	for i := range folds {
		folds[i] = Fold{Training: []int{}, Validation: []int{}}
	}
	for i, f := range assigned {
		for j := range folds {
			if j == f {
				folds[j].Validation = append(folds[j].Validation, i)
			} else {
				folds[j].Training = append(folds[j].Training, i)
			}
		}
	}
	return folds, nil
}
