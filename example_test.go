package rationl_test

import (
	"fmt"

	"github.com/coregx/rationl"
)

func Example() {
	re := rationl.MustCompile(`\d+`)
	for _, m := range re.SearchString("a1 b22 c333") {
		fmt.Println(m.Start(), m.String())
	}
	fmt.Println(re.ReplaceString("a1 b22", "#"))
	// Output:
	// 1 1
	// 4 22
	// 8 333
	// a# b#
}

func ExampleRegex_Match() {
	re := rationl.MustCompile(`a+b?`)
	fmt.Println(re.MatchString("aab!"))
	fmt.Println(re.MatchString("xaab") == nil)
	fmt.Println(re.AcceptsString("aab"), re.AcceptsString("aab!"))
	// Output:
	// aab
	// true
	// true false
}

func ExampleRegex_Search() {
	re := rationl.MustCompile(`ab`)
	for _, m := range re.SearchString("xababx") {
		fmt.Printf("[%d,%d) %s\n", m.Start(), m.End(), m)
	}
	// Output:
	// [1,3) ab
	// [3,5) ab
}

func ExampleRegex_Replace() {
	re := rationl.MustCompile(`a+`)
	fmt.Printf("%s\n", re.Replace([]byte("baaabaab"), []byte("X")))
	// Output: bXbXb
}

func ExampleCompileWithConfig() {
	config := rationl.DefaultConfig()
	config.FoldCase = true
	re, err := rationl.CompileWithConfig(`go(lang)?`, config)
	if err != nil {
		panic(err)
	}
	fmt.Println(re.FindAllString("Go GOLANG golang gopher", -1))
	// Output: [Go GOLANG golang go]
}
