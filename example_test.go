package ecmaregex_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coregx/ecmaregex"
)

func ExampleCompile() {
	re, err := ecmaregex.Compile(`(\d+)-(\d+)`, 0)
	if err != nil {
		panic(err)
	}
	m, _ := re.Find("call 555-1234 now")
	fmt.Println(m.String())
	first, _ := m.Group(1)
	fmt.Println(first)
	// Output:
	// 555-1234
	// 555
}

func ExampleParseLiteral() {
	re, err := ecmaregex.ParseLiteral(`/hello/gi`)
	if err != nil {
		panic(err)
	}
	fmt.Println(re.String(), re.Flags())
	ok, _ := re.IsMatch("Say HELLO")
	fmt.Println(ok)
	// Output:
	// hello gi
	// true
}

func ExampleRegex_FindIter() {
	re := ecmaregex.MustCompile("a*", ecmaregex.FlagGlobal)
	for m, err := range re.FindIter("baa").All() {
		if err != nil {
			panic(err)
		}
		fmt.Printf("[%d,%d) %q\n", m.Start(), m.End(), m.String())
	}
	// Output:
	// [0,0) ""
	// [1,3) "aa"
	// [3,3) ""
}

func ExampleRegex_FindAt_sticky() {
	re := ecmaregex.MustCompile("foo", ecmaregex.FlagSticky)
	m, _ := re.FindAt("xfoo", 0)
	fmt.Println(m == nil)
	m, _ = re.FindAt("xfoo", 1)
	fmt.Println(m.Start(), m.End())
	// Output:
	// true
	// 1 4
}

func ExampleMatch_NamedGroup() {
	re := ecmaregex.MustCompile(`(?<year>\d{4})-(?<month>\d{2})`, ecmaregex.FlagUnicode)
	m, _ := re.Find("released 2024-03")
	year, _ := m.NamedGroup("year")
	month, _ := m.NamedGroup("month")
	fmt.Println(year, month)
	// Output:
	// 2024 03
}

func ExampleRegex_FindAtWithBudget() {
	re := ecmaregex.MustCompile("(a+)+b", 0)
	_, err := re.FindAtWithBudget(strings.Repeat("a", 32), 0, ecmaregex.Budget{Steps: 10_000})
	fmt.Println(errors.Is(err, ecmaregex.ErrExecutionLimitExceeded))
	// Output:
	// true
}

func ExampleRegex_Literal() {
	re := ecmaregex.MustCompile("a/b", ecmaregex.FlagGlobal)
	fmt.Println(re.Literal())
	// Output:
	// /a\/b/g
}
