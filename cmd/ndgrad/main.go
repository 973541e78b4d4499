// Package main provides the ndgrad demo CLI.
//
// It runs small walkthrough programs over the tensor and autodiff packages
// and prints values, gradients and metadata of every named tensor:
//
//	ndgrad version
//	ndgrad -demo=walkthrough -seed=7
//	ndgrad -demo=all -grads=false -metadata
//	ndgrad -demo=vectors -save=/tmp/vectors.safetensors
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

const version = "v0.1.0"

var (
	flagDemo     = flag.String("demo", "walkthrough", "Demo to run: walkthrough, scalars, vectors or all.")
	flagSeed     = flag.Uint64("seed", 42, "Seed for random initialization.")
	flagLow      = flag.Int("low", 1, "Inclusive lower bound of random integers.")
	flagHigh     = flag.Int("high", 10, "Exclusive upper bound of random integers.")
	flagGrads    = flag.Bool("grads", true, "Print gradients after the backward pass.")
	flagMetadata = flag.Bool("metadata", false, "Print a metadata table of every named tensor.")
	flagSave     = flag.String("save", "", "If set, save values and gradients of every named tensor to this SafeTensors file.")
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("ndgrad %s\n", version)
		return
	}

	klog.InitFlags(nil)
	flag.Parse()

	cfg := config{
		demo:     *flagDemo,
		seed:     *flagSeed,
		low:      *flagLow,
		high:     *flagHigh,
		grads:    *flagGrads,
		metadata: *flagMetadata,
		save:     *flagSave,
	}
	err := exceptions.TryCatch[error](func() {
		must.M(run(os.Stdout, cfg))
	})
	if err != nil {
		klog.Errorf("Error:\n%+v", err)
		os.Exit(1)
	}
}
