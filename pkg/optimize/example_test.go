package optimize_test

import (
	"fmt"

	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/locus"
	"github.com/matzehuels/crosscover/pkg/optimize"
)

func buildMap() ([]cross.Cross, *coverage.Map) {
	m := coverage.New(locus.NewIndex("L1", "L2", "L3", "L4"))
	candidates := []cross.Cross{cross.New("A", "B"), cross.New("A", "C"), cross.New("D", "B")}
	_ = m.SetNames(candidates[0], "L1", "L2")
	_ = m.SetNames(candidates[1], "L2", "L3")
	_ = m.SetNames(candidates[2], "L4")
	return candidates, m
}

func ExampleSelectBestByUnion() {
	candidates, m := buildMap()

	res, err := optimize.SelectBestByUnion(3, candidates, m)
	if err != nil {
		panic(err)
	}
	for _, sel := range res.Selections {
		fmt.Println(sel.K, sel.Labels(), sel.Coverage)
	}
	// Output:
	// 2 [A x B A x C] 3
	// 3 [A x B A x C D x B] 4
}

func ExampleSelectIncrementally() {
	candidates, m := buildMap()

	res, err := optimize.SelectIncrementally(3, candidates, m)
	if err != nil {
		panic(err)
	}
	for _, step := range res.Steps {
		fmt.Printf("%s +%d (%d)\n", step.Cross, step.Added, step.Cumulative.Len())
	}
	// Output:
	// A x B +2 (2)
	// A x C +1 (3)
	// D x B +1 (4)
}

func ExampleResult_Shortfall() {
	candidates, m := buildMap()

	res, _ := optimize.SelectIncrementally(6, candidates, m)
	fmt.Println(res.Shortfall())
	// Output:
	// INSUFFICIENT_CANDIDATES: requested 6 crosses but only 3 distinct candidates are available
}
