package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/pprl/codec"
	"github.com/hupe1980/pprl/record"
)

// Dataset is the on-disk form of one party.
type Dataset struct {
	Party          string          `json:"party"`
	EncodingLength uint            `json:"encoding_length"`
	Records        []DatasetRecord `json:"records"`
}

// DatasetRecord is one encoded record given by its set bit positions.
type DatasetRecord struct {
	ID    string `json:"id"`
	Block string `json:"block,omitempty"`
	Bits  []uint `json:"bits"`
}

// LoadParty reads a dataset file into an in-memory party.
func LoadParty(path string) (*record.MemoryParty, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := (codec.GoJSON{}).Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if ds.Party == "" {
		return nil, fmt.Errorf("dataset %s: missing party id", path)
	}

	p := record.NewMemoryParty(ds.Party)
	for _, dr := range ds.Records {
		r, err := record.New(dr.ID, dr.Block, ds.EncodingLength, dr.Bits)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: record %q: %w", path, dr.ID, err)
		}
		if err := p.Add(r); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", path, err)
		}
	}
	return p, nil
}

func loadParties(paths []string) ([]record.Party, error) {
	parties := make([]record.Party, 0, len(paths))
	for _, path := range paths {
		p, err := LoadParty(path)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	return parties, nil
}
