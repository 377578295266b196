package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// barChart is a labelled text bar chart, printed in a code block so that the
// bars stay aligned.
type barChart struct {
	labels []string
	values []float64
	texts  []string
}

func (c *barChart) add(label string, v float64, text string) {
	c.labels = append(c.labels, label)
	c.values = append(c.values, v)
	c.texts = append(c.texts, text)
}

const barWidth = 30

// print writes the chart to w, and returns false if there is nothing worth
// drawing (no positive value).
func (c *barChart) print(w io.Writer) bool {
	var top float64
	for _, v := range c.values {
		if isFinite(v) {
			top = max(top, v)
		}
	}
	if top <= 0 {
		return false
	}
	labelWidth := 0
	for _, l := range c.labels {
		labelWidth = max(labelWidth, len([]rune(l)))
	}

	fmt.Fprintln(w, "```text")
	for i, l := range c.labels {
		b := bar(c.values[i], top, barWidth)
		fmt.Fprintf(w, "%s%s %s%s %s\n",
			l, strings.Repeat(" ", labelWidth-len([]rune(l))),
			b, strings.Repeat(" ", barWidth-len([]rune(b))),
			c.texts[i])
	}
	fmt.Fprintln(w, "```")
	return true
}
