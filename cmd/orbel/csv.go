package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	orbital "github.com/lasr/orbital-elements"
	"gonum.org/v1/gonum/mat"
)

// open returns the input of the command, either a file or the command's stdin.
func (a *app) open(in io.Reader) (io.ReadCloser, error) {
	if a.input == "" || a.input == "-" {
		return io.NopCloser(in), nil
	}
	return os.Open(a.input)
}

// readBatch reads `t,x1,...,x6` records. Lines starting with # and non numeric header rows are skipped.
func readBatch(r io.Reader) ([]float64, *mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = orbital.StateWidth + 1
	var T []float64
	var rows [][]float64
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		vals := make([]float64, len(record))
		for i, field := range record {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				break
			}
		}
		if err != nil {
			if len(rows) == 0 {
				continue // header
			}
			return nil, nil, fmt.Errorf("record %d: %s", line, err)
		}
		T = append(T, vals[0])
		rows = append(rows, vals[1:])
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no state in input")
	}
	return T, orbital.NewBatch(rows...), nil
}

// writeBatch writes the header and one record per time, made of t and every column of each block.
func writeBatch(w io.Writer, header []string, T []float64, blocks ...mat.Matrix) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, 0, len(header))
	for i, t := range T {
		record = append(record[:0], strconv.FormatFloat(t, 'g', -1, 64))
		for _, b := range blocks {
			_, c := b.Dims()
			for j := 0; j < c; j++ {
				record = append(record, strconv.FormatFloat(b.At(i, j), 'g', -1, 64))
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func header(first string, cols ...[]string) []string {
	h := []string{first}
	for _, c := range cols {
		h = append(h, c...)
	}
	return h
}

func rateColumns(rep orbital.Representation) []string {
	cols := rep.Columns()
	d := make([]string, len(cols))
	for i, c := range cols {
		d[i] = "d" + c
	}
	return d
}

var accelColumns = []string{"ar", "at", "an"}
