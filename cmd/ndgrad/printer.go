package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/ndgrad/ndgrad/tensor"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headingStyle      = lipgloss.NewStyle().Bold(true)
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	tableBorderColor  = "#705090"
)

// metadataOptions selects the table columns shown after the tensor label.
var metadataOptions = tensor.MetadataOptions{
	Strides:  true,
	Size:     true,
	OwnsData: true,
	Storage:  true,
}

// printer writes the output of one demo with lipgloss styling.
type printer struct {
	w     io.Writer
	demo  string
	saved map[string]*tensor.Tensor // Shared across demos of a run
}

func newPrinter(w io.Writer, demo string, saved map[string]*tensor.Tensor) *printer {
	return &printer{w: w, demo: demo, saved: saved}
}

func (p *printer) title() {
	fmt.Fprintf(p.w, "%s\n", titleStyle.Render("== "+p.demo+" =="))
}

// values prints a heading followed by the tensor's values.
func (p *printer) values(heading string, t *tensor.Tensor) {
	fmt.Fprintf(p.w, "\n%s\n%s\n", headingStyle.Render(heading+":"), t.Format(tensor.PrintData))
}

// grad prints the tensor's gradient under "Grad <label>".
func (p *printer) grad(t *tensor.Tensor) {
	fmt.Fprintf(p.w, "\n%s\n%s\n", headingStyle.Render("Grad "+t.Label()+":"), t.Format(tensor.PrintGrad))
}

// metadataTable prints one row per tensor with the fields of metadataOptions.
func (p *printer) metadataTable(tensors []*tensor.Tensor) {
	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headingStyle.Padding(0, 1)
			}
			if col == 0 {
				return rightAlignedStyle
			}
			return normalStyle
		})

	for i, t := range tensors {
		fields := t.MetadataFields(metadataOptions)
		if i == 0 {
			headers := []string{"Tensor"}
			for _, f := range fields {
				headers = append(headers, f.Name)
			}
			table.Headers(append(headers, "Op", "Kind")...)
		}
		row := []string{t.Label()}
		for _, f := range fields {
			row = append(row, f.Value)
		}
		table.Row(append(row, t.Op(), t.Kind().String())...)
	}
	fmt.Fprintf(p.w, "\n%s\n", table.String())
}
