package mirrorsync

import "pawnshop-ledger/internal/domain/record"

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

type Status struct {
	Mode        string             `json:"mode"`
	Provider    string             `json:"provider,omitempty"`
	ConfigError string             `json:"configError,omitempty"`
	Collections []record.SyncState `json:"collections"`
}
