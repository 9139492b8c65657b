package minmax

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func Nop() {}

func Call() {
	Nop()
}

func Adder(n int) func(int) int {
	return func(x int) int { return x + n }
}
