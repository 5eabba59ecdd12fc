package genotype_test

import (
	"fmt"

	"github.com/matzehuels/crosscover/pkg/genotype"
)

func ExampleIsInformative() {
	fmt.Println(genotype.IsInformative("AA", "AB"))
	fmt.Println(genotype.IsInformative("AB", "BB"))
	fmt.Println(genotype.IsInformative("AA", "BB"))
	fmt.Println(genotype.IsInformative("NoCall", "AB"))
	// Output:
	// true
	// true
	// false
	// false
}
