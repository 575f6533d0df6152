package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/henderiw/idxrange/pkg/bucketmap"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/henderiw/idxrange/pkg/rangemap"
	"github.com/henderiw/idxrange/pkg/rangeset"
	"github.com/spf13/pflag"
)

func main() {
	ranges := pflag.StringSlice("range", []string{"[1,5]", "[3,4]"}, "ranges to store, e.g. [1,5) or (-inf,3]")
	values := pflag.StringSlice("value", []string{"a", "b"}, "value stored for the range at the same position")
	point := pflag.Int("point", 3, "point to look up")
	verbosity := pflag.IntP("verbosity", "v", 0, "log verbosity")
	pflag.Parse()

	log := funcr.New(func(prefix, args string) {
		fmt.Fprintln(os.Stderr, prefix, args)
	}, funcr.Options{Verbosity: *verbosity})

	if len(*values) != len(*ranges) {
		fmt.Fprintf(os.Stderr, "got %d ranges and %d values\n", len(*ranges), len(*values))
		os.Exit(1)
	}
	if err := run(log, *ranges, *values, *point); err != nil {
		log.Error(err, "demo failed")
		os.Exit(1)
	}
}

func run(log logr.Logger, ranges, values []string, point int) error {
	set := rangeset.New[int](rangeset.WithLogger(log))
	m := rangemap.New[int, string](rangemap.WithLogger(log))
	bm := bucketmap.New[int, string](bucketmap.WithLogger(log))

	for i, s := range ranges {
		rng, err := interval.ParseIntRange(s)
		if err != nil {
			return err
		}
		if err := set.Add(rng); err != nil {
			return err
		}
		if err := m.Put(rng, values[i]); err != nil {
			return err
		}
		if err := bm.Put(rng, values[i]); err != nil {
			return err
		}
	}

	fmt.Println("set:       ", set)
	complement, err := set.Complement()
	if err != nil {
		return err
	}
	fmt.Println("complement:", complement)
	fmt.Println("map:       ", m)
	fmt.Println("bucketmap: ", bm)

	if v, err := m.Get(point); err == nil {
		fmt.Printf("map[%d] = %s\n", point, v)
	} else {
		fmt.Printf("map[%d]: %v\n", point, err)
	}
	if v, err := bm.Get(point); err == nil {
		fmt.Printf("bucketmap[%d] = %v\n", point, v.UnsortedList())
	} else {
		fmt.Printf("bucketmap[%d]: %v\n", point, err)
	}

	for rng, v := range bm.All() {
		fmt.Printf("item %s %s\n", rng, v)
	}
	return nil
}
