// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/katalvlaran/stablesdp/matrix"
)

type wireMatrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

type wireBundle struct {
	ID         uuid.UUID            `json:"id"`
	Case       string               `json:"case"`
	Kind       string               `json:"kind"`
	CustomKind string               `json:"custom_kind,omitempty"`
	Cost       float64              `json:"cost"`
	Solution   *wireMatrix          `json:"solution,omitempty"`
	Aux        map[string][]float64 `json:"aux,omitempty"`
}

func toWire(m *matrix.Dense) *wireMatrix {
	if m == nil {
		return nil
	}

	return &wireMatrix{Rows: m.Rows(), Cols: m.Cols(), Data: m.RawRowMajor()}
}

func fromWire(w *wireMatrix) (*matrix.Dense, error) {
	if w == nil {
		return nil, nil
	}
	m, err := matrix.NewFromRowMajor(w.Rows, w.Cols, w.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %dx%d matrix", w.Rows, w.Cols)
	}

	return m, nil
}

func encodeSamples(samples []*matrix.Dense) ([]byte, error) {
	wire := make([]*wireMatrix, len(samples))
	for i, s := range samples {
		if s == nil {
			return nil, errors.Wrapf(matrix.ErrNilMatrix, "sample %d", i)
		}
		wire[i] = toWire(s)
	}

	return json.Marshal(wire)
}

func decodeSamples(raw []byte) ([]*matrix.Dense, error) {
	var wire []*wireMatrix
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Wrap(err, "decode samples")
	}
	out := make([]*matrix.Dense, len(wire))
	for i, w := range wire {
		m, err := fromWire(w)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		out[i] = m
	}

	return out, nil
}

func encodeBundle(b Bundle) ([]byte, error) {
	return json.Marshal(wireBundle{
		ID:         b.ID,
		Case:       b.Case,
		Kind:       b.Kind,
		CustomKind: b.CustomKind,
		Cost:       b.Cost,
		Solution:   toWire(b.Solution),
		Aux:        b.Aux,
	})
}

func decodeBundle(raw []byte) (Bundle, error) {
	var w wireBundle
	if err := json.Unmarshal(raw, &w); err != nil {
		return Bundle{}, errors.Wrap(err, "decode bundle")
	}
	sol, err := fromWire(w.Solution)
	if err != nil {
		return Bundle{}, err
	}

	return Bundle{
		ID:         w.ID,
		Case:       w.Case,
		Kind:       w.Kind,
		CustomKind: w.CustomKind,
		Cost:       w.Cost,
		Solution:   sol,
		Aux:        w.Aux,
	}, nil
}
