package validation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteText writes the matrix and its metrics as tab separated text.
func (m *Matrix) WriteText(w io.Writer, title string) error {
	bw := bufio.NewWriter(w)

	if title != "" {
		fmt.Fprintln(bw, title)
	}

	fmt.Fprint(bw, "original \\ suggested")
	for _, d := range m.Decisions {
		fmt.Fprint(bw, "\t", d)
	}
	fmt.Fprintln(bw, "\tunknown")
	for i, row := range m.Values {
		fmt.Fprint(bw, m.Decisions[i])
		for _, v := range row {
			fmt.Fprint(bw, "\t", format(v))
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw)

	metric := func(name string, v float64, dev func(*Deviation) float64) {
		fmt.Fprint(bw, name, "\t", format(v))
		if m.Deviation != nil {
			fmt.Fprint(bw, "\t+/- ", format(dev(m.Deviation)))
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw, "number of objects\t"+format(m.NumberOfObjects))
	fmt.Fprintln(bw, "number of correct assignments\t"+format(m.NumberOfCorrectAssignments))
	fmt.Fprintln(bw, "number of incorrect assignments\t"+format(m.NumberOfIncorrectAssignments))
	fmt.Fprintln(bw, "number of objects with assigned decision\t"+format(m.NumberOfObjectsWithAssignedDecision))
	metric("accuracy", m.Accuracy, func(d *Deviation) float64 { return d.Accuracy })
	for i, d := range m.Decisions {
		metric("true positive rate of "+d, m.TruePositiveRate[i], func(dev *Deviation) float64 { return dev.TruePositiveRate[i] })
	}
	metric("gmean", m.Gmean, func(d *Deviation) float64 { return d.Gmean })
	metric("MAE", m.MAE, func(d *Deviation) float64 { return d.MAE })
	metric("RMSE", m.RMSE, func(d *Deviation) float64 { return d.RMSE })

	return bw.Flush()
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
