// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import (
	"fmt"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

// InferKeys picks default category (x) and numeric (y) keys for a table.
//
// xKey is the first header. yKey is the first header whose value in the first
// row is numeric, falling back to the second header (or the first when there
// is only one). Empty tables return ErrEmptyDataset.
func InferKeys(t *dataset.Table) (xKey, yKey string, err error) {
	if t == nil || t.IsEmpty() {
		return "", "", ErrEmptyDataset
	}
	headers := t.Headers()
	first := t.Row(0)

	xKey = headers[0]
	for _, h := range headers {
		if dataset.IsNumeric(first.Get(h)) {
			return xKey, h, nil
		}
	}
	if len(headers) > 1 {
		return xKey, headers[1], nil
	}
	return xKey, headers[0], nil
}

// ResolvedKeys are the key bindings actually used to render a chart.
type ResolvedKeys struct {
	XKey     string
	YKey     string
	ZKey     string
	Warnings []string
}

// ResolveKeys validates a spec's bindings against the table. Keys that are
// unset or missing from the headers fall back to inferred defaults; each
// fallback of a non-empty key is reported as a warning wrapping
// ErrInvalidKeyBinding. ZKey is kept only when present in the table.
func ResolveKeys(t *dataset.Table, spec ChartSpec) (ResolvedKeys, error) {
	defX, defY, err := InferKeys(t)
	if err != nil {
		return ResolvedKeys{}, err
	}

	rk := ResolvedKeys{XKey: spec.XKey, YKey: spec.YKey, ZKey: spec.ZKey}
	resolve := func(name string, key *string, fallback string) {
		if *key != "" && t.HasHeader(*key) {
			return
		}
		if *key != "" {
			rk.Warnings = append(rk.Warnings, fmt.Errorf("%w: %s key %q not in dataset, using %q",
				ErrInvalidKeyBinding, name, *key, fallback).Error())
		}
		*key = fallback
	}
	resolve("x", &rk.XKey, defX)
	resolve("y", &rk.YKey, defY)

	if rk.ZKey != "" && !t.HasHeader(rk.ZKey) {
		rk.Warnings = append(rk.Warnings, fmt.Errorf("%w: z key %q not in dataset, dropped",
			ErrInvalidKeyBinding, rk.ZKey).Error())
		rk.ZKey = ""
	}
	return rk, nil
}
