package main

import (
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/janpfeifer/must"
	"github.com/ndgrad/ndgrad/autodiff"
	"github.com/ndgrad/ndgrad/internal/serialization"
	"github.com/ndgrad/ndgrad/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// config holds the command-line settings of a run.
type config struct {
	demo     string
	seed     uint64
	low      int
	high     int
	grads    bool
	metadata bool
	save     string // SafeTensors output path, empty to skip
}

// demo builds a graph, runs backward and reports through p.
type demo func(p *printer, rng *rand.Rand, cfg config)

var demos = map[string]demo{
	"walkthrough": walkthrough,
	"scalars":     scalars,
	"vectors":     vectors,
}

// demoOrder is the order used by -demo=all.
var demoOrder = []string{"walkthrough", "scalars", "vectors"}

// run executes the demo selected by cfg, writing to w.
// Tensor errors inside demos panic through must and are converted back to
// errors by the caller.
func run(w io.Writer, cfg config) error {
	if cfg.low >= cfg.high {
		return errors.Errorf("invalid random range [%d, %d)", cfg.low, cfg.high)
	}

	names := []string{cfg.demo}
	if cfg.demo == "all" {
		names = demoOrder
	}
	for _, name := range names {
		if _, ok := demos[name]; !ok {
			return errors.Errorf("unknown demo %q, valid demos: %v or all", name, demoOrder)
		}
	}

	rng := rand.New(rand.NewPCG(cfg.seed, 0))
	saved := make(map[string]*tensor.Tensor)
	for _, name := range names {
		klog.V(1).Infof("running demo %q", name)
		p := newPrinter(w, name, saved)
		p.title()
		demos[name](p, rng, cfg)
	}

	if cfg.save == "" {
		return nil
	}
	err := serialization.SaveFile(cfg.save, saved,
		serialization.WithGradients(),
		serialization.WithMetadata(map[string]string{
			"demos": strings.Join(names, ","),
			"seed":  strconv.FormatUint(cfg.seed, 10),
		}))
	if err != nil {
		return errors.WithMessagef(err, "saving tensors to %s", cfg.save)
	}
	klog.Infof("saved %d tensors to %s", len(saved), cfg.save)
	return nil
}

// walkthrough exercises creation, broadcasting, scalar ops, division and
// matmul, then prints the gradient of every tensor in the graph.
func walkthrough(p *printer, rng *rand.Rand, cfg config) {
	a := must.M1(tensor.New(tensor.Shape{2, 3}, tensor.WithLabel("A")))
	must.M(a.FillSequential())
	must.M(a.Set(10, 0, 1))
	p.values("A", a)

	b := must.M1(tensor.New(tensor.Shape{1, 3}, tensor.WithLabel("B")))
	must.M(b.Ones())
	p.values("B", b)

	c := must.M1(autodiff.Add(a, b))
	c.SetLabel("C")
	p.values("C = A + B", c)

	e := autodiff.MulScalar(c, 2)
	e.SetLabel("E")
	f := autodiff.SubScalar(e, 3)
	f.SetLabel("F")
	p.values("E = C * 2", e)
	p.values("F = E - 3", f)

	tmp := autodiff.AddScalar(b, 1)
	tmp.SetLabel("Tmp")
	g := must.M1(autodiff.Div(f, tmp))
	g.SetLabel("G")
	p.values("G = F / (B + 1)", g)

	w := must.M1(tensor.New(tensor.Shape{3, 2}, tensor.WithLabel("W")))
	must.M(w.RandInt(rng, cfg.low, cfg.high))
	h := must.M1(autodiff.MatMul(g, w))
	h.SetLabel("H")
	p.values("W", w)
	p.values("H = G @ W", h)

	h.Backward()
	p.report(cfg, h, a, b, c, e, f, tmp, g, w)
}

// scalars differentiates z = 2x + 10 for a random scalar x.
func scalars(p *printer, rng *rand.Rand, cfg config) {
	x := must.M1(tensor.New(tensor.Shape{1}, tensor.WithLabel("X")))
	must.M(x.RandInt(rng, cfg.low, cfg.high))
	p.values("X", x)

	y := autodiff.MulScalar(x, 2)
	y.SetLabel("Y")
	z := autodiff.AddScalar(y, 10)
	z.SetLabel("Z")
	p.values("Z = X * 2 + 10", z)

	z.Backward()
	p.report(cfg, z, x)
}

// vectors differentiates X @ Y + 10 with X sequential and Y random.
func vectors(p *printer, rng *rand.Rand, cfg config) {
	x := must.M1(tensor.New(tensor.Shape{2, 3}, tensor.WithLabel("X")))
	must.M(x.FillSequential())
	p.values("X", x)

	y := must.M1(tensor.New(tensor.Shape{3, 2}, tensor.WithLabel("Y")))
	must.M(y.RandInt(rng, cfg.low, cfg.high))
	p.values("Y", y)

	z := must.M1(autodiff.MatMul(x, y))
	z.SetLabel("Z")
	p.values("Z = X @ Y", z)

	result := autodiff.AddScalar(z, 10)
	result.SetLabel("result")
	p.values("result = Z + 10", result)

	result.Backward()
	p.report(cfg, result, x, y)
}

// report prints the gradient of root and of each tensor in order, followed by
// the metadata table, as selected by cfg. Every tensor is also recorded for
// saving under "<demo>.<label>".
func (p *printer) report(cfg config, root *tensor.Tensor, tensors ...*tensor.Tensor) {
	all := append([]*tensor.Tensor{root}, tensors...)
	for _, t := range all {
		p.saved[p.demo+"."+t.Label()] = t
	}
	if cfg.grads {
		for _, t := range all {
			p.grad(t)
		}
	}
	if cfg.metadata {
		p.metadataTable(all)
	}
}
