// Package sumton provides three ways of summing the integers 1..n.
//
// All of them return 0 for n <= 0.
package sumton

// MaxRecursive is the largest n Recursive accepts. Deeper recursion can
// exhaust the goroutine stack, which is a fatal error rather than a panic.
const MaxRecursive = 1_000_000

// Iterative sums 1..n with a loop. O(n) time, O(1) space.
func Iterative(n int) int {
	if n < 1 {
		return 0
	}

	sum := 0
	for i := 1; i <= n; i++ {
		sum += i
	}
	return sum
}

// ClosedForm uses the Gauss formula n*(n+1)/2. O(1) time and space.
//
// The even factor is halved first, so the result is exact whenever the sum
// itself fits in an int.
func ClosedForm(n int) int {
	if n < 1 {
		return 0
	}
	if n%2 == 0 {
		return n / 2 * (n + 1)
	}
	return (n + 1) / 2 * n
}

// Recursive sums 1..n with linear recursion. O(n) time and stack.
//
// It panics for n > MaxRecursive.
func Recursive(n int) int {
	if n > MaxRecursive {
		panic("sumton: recursion depth exceeds MaxRecursive")
	}
	return recursive(n)
}

func recursive(n int) int {
	if n <= 0 {
		return 0
	}
	return n + recursive(n-1)
}
