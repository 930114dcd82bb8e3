package storage

import (
	"encoding/json"
	"errors"

	"setgenome/record"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Stamp marks a record as written by the current schema and codec.
func Stamp(v *record.VersionedRecord) {
	v.SchemaVersion = CurrentSchemaVersion
	v.CodecVersion = CurrentCodecVersion
}

func EncodeGenome(g record.Genome) ([]byte, error) {
	return json.Marshal(g)
}

func DecodeGenome(data []byte) (record.Genome, error) {
	var genome record.Genome
	if err := json.Unmarshal(data, &genome); err != nil {
		return record.Genome{}, err
	}
	if err := checkVersion(genome.VersionedRecord); err != nil {
		return record.Genome{}, err
	}
	return genome, nil
}

func EncodeRegistry(r record.Registry) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRegistry(data []byte) (record.Registry, error) {
	var reg record.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return record.Registry{}, err
	}
	if err := checkVersion(reg.VersionedRecord); err != nil {
		return record.Registry{}, err
	}
	return reg, nil
}

func checkVersion(v record.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
