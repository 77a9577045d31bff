package providers

import (
	"math"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Combinatorics contributes factorials, binomials, Fibonacci numbers and
// small number-theory helpers. Results stay Integer while they fit in 64
// bits and widen to Float beyond that; inputs are capped where the result
// would exceed the Float range too.
type Combinatorics struct{}

func (p *Combinatorics) Name() string { return "Combinatorics" }

func (p *Combinatorics) Operations() []*operation.Operation {
	return []*operation.Operation{
		opFactorial(), opPermutations(), opCombinations(), opFibonacci(),
		opFibonacciList(), opGCD(), opLCM(), opIsPrime(), opPrimeFactors(),
		opPrimes(), opBinomialCoeff(),
	}
}

func nonNegativeInt(name string, v object.Object) (int64, *object.RuntimeError) {
	n, err := integer(name, v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, object.NewError(object.TypeError, "%s must be non-negative, got %d", name, n)
	}
	return n, nil
}

func positiveInt(name string, v object.Object) (int64, *object.RuntimeError) {
	n, err := nonNegativeInt(name, v)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, object.NewError(object.TypeError, "%s must be positive, got 0", name)
	}
	return n, nil
}

// accumulator multiplies integers, widening to float64 once the product
// no longer fits in int64.
type accumulator struct {
	intVal   int64
	floatVal float64
	overflow bool
}

func newAccumulator() *accumulator { return &accumulator{intVal: 1} }

func (a *accumulator) mul(n int64) {
	if a.overflow {
		a.floatVal *= float64(n)
		return
	}
	if n != 0 && a.intVal > math.MaxInt64/n {
		a.overflow = true
		a.floatVal = float64(a.intVal) * float64(n)
		return
	}
	a.intVal *= n
}

func (a *accumulator) value() object.Object {
	if a.overflow {
		return &object.Float{Value: a.floatVal}
	}
	return &object.Integer{Value: a.intVal}
}

func opFactorial() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Factorial",
		Name:        "Factorial",
		Description: "Calculates n! (n factorial)",
		Category:    "Combinatorics/Basic",
		Required:    []operation.ArgInfo{arg("n", "Non-negative integer")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := nonNegativeInt("n", args[0])
			if err != nil {
				return err
			}
			if n > 170 {
				return object.NewError(object.TypeError, "Factorial too large: %d! exceeds floating point range", n)
			}
			acc := newAccumulator()
			for i := int64(2); i <= n; i++ {
				acc.mul(i)
			}
			return acc.value()
		},
	}
}

func opPermutations() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Permutations",
		Name:        "Permutations (nPr)",
		Description: "Calculates the number of permutations of r items from n items",
		Category:    "Combinatorics/Basic",
		Required: []operation.ArgInfo{
			arg("n", "Total number of items"),
			arg("r", "Number of items to select"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, nerr := nonNegativeInt("n", args[0])
			if nerr != nil {
				return nerr
			}
			r, rerr := nonNegativeInt("r", args[1])
			if rerr != nil {
				return rerr
			}
			if r > n {
				return object.NewError(object.TypeError, "r (%d) cannot be greater than n (%d)", r, n)
			}
			acc := newAccumulator()
			for i := n - r + 1; i <= n; i++ {
				acc.mul(i)
			}
			return acc.value()
		},
	}
}

// choose computes n choose k with the multiplicative formula, dividing at
// each step to keep intermediates integral.
func choose(n, k int64) object.Object {
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	overflow := false
	fresult := 0.0
	for i := int64(1); i <= k; i++ {
		if overflow {
			fresult = fresult * float64(n-k+i) / float64(i)
			continue
		}
		if result > math.MaxInt64/(n-k+i) {
			overflow = true
			fresult = float64(result) * float64(n-k+i) / float64(i)
			continue
		}
		result = result * (n - k + i) / i
	}
	if overflow {
		return &object.Float{Value: fresult}
	}
	return &object.Integer{Value: result}
}

func opCombinations() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Combinations",
		Name:        "Combinations (nCr)",
		Description: "Calculates the number of combinations of r items from n items",
		Category:    "Combinatorics/Basic",
		Required: []operation.ArgInfo{
			arg("n", "Total number of items"),
			arg("r", "Number of items to select"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, nerr := nonNegativeInt("n", args[0])
			if nerr != nil {
				return nerr
			}
			r, rerr := nonNegativeInt("r", args[1])
			if rerr != nil {
				return rerr
			}
			if r > n {
				return object.NewError(object.TypeError, "r (%d) cannot be greater than n (%d)", r, n)
			}
			return choose(n, r)
		},
	}
}

// fib iterates the sequence, widening to float64 past F(92).
func fib(n int64) object.Object {
	if n <= 1 {
		return &object.Integer{Value: n}
	}
	a, b := int64(0), int64(1)
	for i := int64(2); i <= n; i++ {
		if b > math.MaxInt64-a {
			fa, fb := float64(a), float64(b)
			for ; i <= n; i++ {
				fa, fb = fb, fa+fb
			}
			return &object.Float{Value: fb}
		}
		a, b = b, a+b
	}
	return &object.Integer{Value: b}
}

func opFibonacci() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Fibonacci",
		Name:        "Fibonacci",
		Description: "Returns the nth Fibonacci number (0-indexed: F(0)=0, F(1)=1)",
		Category:    "Combinatorics/Sequences",
		Required:    []operation.ArgInfo{arg("n", "Index in the sequence (0-based)")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := nonNegativeInt("n", args[0])
			if err != nil {
				return err
			}
			if n > 1000 {
				return object.NewError(object.TypeError, "Fibonacci index too large: %d", n)
			}
			return fib(n)
		},
	}
}

func opFibonacciList() *operation.Operation {
	return &operation.Operation{
		Identifier:  "FibonacciList",
		Name:        "Fibonacci List",
		Description: "Returns the first n Fibonacci numbers",
		Category:    "Combinatorics/Sequences",
		Required:    []operation.ArgInfo{arg("n", "Number of Fibonacci numbers to generate")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := positiveInt("n", args[0])
			if err != nil {
				return err
			}
			if n > 1000 {
				return object.NewError(object.TypeError, "Too many Fibonacci numbers requested: %d", n)
			}
			items := make([]object.Object, n)
			for i := int64(0); i < n; i++ {
				items[i] = fib(i)
			}
			return &object.List{Items: items}
		},
	}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func opGCD() *operation.Operation {
	return &operation.Operation{
		Identifier:  "GCD",
		Name:        "Greatest Common Divisor",
		Description: "Calculates the greatest common divisor of two integers",
		Category:    "Combinatorics/Number Theory",
		Required: []operation.ArgInfo{
			arg("a", "First integer"),
			arg("b", "Second integer"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			a, aerr := integer("a", args[0])
			if aerr != nil {
				return aerr
			}
			b, berr := integer("b", args[1])
			if berr != nil {
				return berr
			}
			return &object.Integer{Value: gcd(a, b)}
		},
	}
}

func opLCM() *operation.Operation {
	return &operation.Operation{
		Identifier:  "LCM",
		Name:        "Least Common Multiple",
		Description: "Calculates the least common multiple of two integers",
		Category:    "Combinatorics/Number Theory",
		Required: []operation.ArgInfo{
			arg("a", "First integer"),
			arg("b", "Second integer"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			a, aerr := integer("a", args[0])
			if aerr != nil {
				return aerr
			}
			b, berr := integer("b", args[1])
			if berr != nil {
				return berr
			}
			if a == 0 || b == 0 {
				return &object.Integer{Value: 0}
			}
			g := gcd(a, b)
			l := a / g * b
			if l < 0 {
				l = -l
			}
			return &object.Integer{Value: l}
		},
	}
}

func opIsPrime() *operation.Operation {
	return &operation.Operation{
		Identifier:  "IsPrime",
		Name:        "Is Prime",
		Description: "Tests whether a number is prime",
		Category:    "Combinatorics/Number Theory",
		Required:    []operation.ArgInfo{arg("n", "Integer to test")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := integer("n", args[0])
			if err != nil {
				return err
			}
			if n < 2 {
				return &object.Integer{Value: 0}
			}
			if n == 2 {
				return &object.Integer{Value: 1}
			}
			if n%2 == 0 {
				return &object.Integer{Value: 0}
			}
			for i := int64(3); i*i <= n; i += 2 {
				if n%i == 0 {
					return &object.Integer{Value: 0}
				}
			}
			return &object.Integer{Value: 1}
		},
	}
}

func opPrimeFactors() *operation.Operation {
	return &operation.Operation{
		Identifier:  "PrimeFactors",
		Name:        "Prime Factors",
		Description: "Returns the prime factorization of a number",
		Category:    "Combinatorics/Number Theory",
		Required:    []operation.ArgInfo{arg("n", "Positive integer to factor")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := positiveInt("n", args[0])
			if err != nil {
				return err
			}
			var factors []object.Object
			for d := int64(2); d*d <= n; d++ {
				for n%d == 0 {
					factors = append(factors, &object.Integer{Value: d})
					n /= d
				}
			}
			if n > 1 {
				factors = append(factors, &object.Integer{Value: n})
			}
			return &object.List{Items: factors}
		},
	}
}

func opPrimes() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Primes",
		Name:        "Primes Up To",
		Description: "Returns all prime numbers up to n",
		Category:    "Combinatorics/Number Theory",
		Required:    []operation.ArgInfo{arg("n", "Upper limit")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := nonNegativeInt("n", args[0])
			if err != nil {
				return err
			}
			if n < 2 {
				return &object.List{}
			}
			if n > 1000000 {
				return object.NewError(object.TypeError, "Upper limit too large: %d", n)
			}
			sieve := make([]bool, n+1)
			for i := int64(2); i*i <= n; i++ {
				if !sieve[i] {
					for j := i * i; j <= n; j += i {
						sieve[j] = true
					}
				}
			}
			var primes []object.Object
			for i := int64(2); i <= n; i++ {
				if !sieve[i] {
					primes = append(primes, &object.Integer{Value: i})
				}
			}
			return &object.List{Items: primes}
		},
	}
}

func opBinomialCoeff() *operation.Operation {
	return &operation.Operation{
		Identifier:  "BinomialCoeff",
		Name:        "Binomial Coefficient",
		Description: "Calculates the binomial coefficient (n choose k)",
		Category:    "Combinatorics/Basic",
		Required: []operation.ArgInfo{
			arg("n", "Total number"),
			arg("k", "Selection number"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, nerr := nonNegativeInt("n", args[0])
			if nerr != nil {
				return nerr
			}
			k, kerr := nonNegativeInt("k", args[1])
			if kerr != nil {
				return kerr
			}
			if k > n {
				return &object.Integer{Value: 0}
			}
			return choose(n, k)
		},
	}
}
