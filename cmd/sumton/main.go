package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"bookshelf/internal/config"
	"bookshelf/internal/sumton"
)

type cli struct {
	N int `arg:"" default:"5" help:"Upper bound of the sum; at most ${max}." optional:""`
}

func main() {
	c, err := parse(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	report(os.Stdout, c.N)
}

// parse reads the command line. A negative n would otherwise be taken for
// a flag, so it is moved behind "--".
func parse(args []string) (cli, error) {
	args = append([]string(nil), args...)
	for i, a := range args {
		if a == "--" {
			break
		}
		if n, err := strconv.Atoi(a); err == nil && n < 0 {
			args = append(args[:i:i], append([]string{"--"}, args[i:]...)...)
			break
		}
	}

	var c cli
	_, err := config.Parse(&c, "sumton", "Sum the integers 1..n three ways.", args,
		kong.Vars{"max": strconv.Itoa(sumton.MaxRecursive)},
	)
	if err != nil {
		return cli{}, err
	}
	if c.N > sumton.MaxRecursive {
		return cli{}, fmt.Errorf("n must be at most %d", sumton.MaxRecursive)
	}
	return c, nil
}

func report(w io.Writer, n int) {
	_, _ = fmt.Fprintf(w, "sum_to_n_a(%d): %d\n", n, sumton.Iterative(n))
	_, _ = fmt.Fprintf(w, "sum_to_n_b(%d): %d\n", n, sumton.ClosedForm(n))
	_, _ = fmt.Fprintf(w, "sum_to_n_c(%d): %d\n", n, sumton.Recursive(n))
}
