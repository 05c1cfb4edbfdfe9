package config

import (
	"fmt"
	"strings"

	"pawnshop-ledger/internal/domain/errs"
)

const (
	ProviderGitHub = "github"
	ProviderGCS    = "gcs"
)

var ErrIncompleteRemote = fmt.Errorf("%w: incomplete remote storage settings", errs.ErrConfiguration)

// StorageMode is either LocalMode or RemoteMode.
type StorageMode interface {
	isStorageMode()
}

type LocalMode struct{}

type RemoteMode struct {
	Remote RemoteConfig
}

func (LocalMode) isStorageMode()  {}
func (RemoteMode) isStorageMode() {}

type RemoteConfig struct {
	Provider string

	// github
	Owner      string
	Repository string
	Token      string
	Branch     string

	// gcs
	Bucket          string
	Prefix          string
	CredentialsJSON string
}

func (r RemoteConfig) Validate() error {
	var missing []string
	switch r.Provider {
	case ProviderGitHub:
		if r.Owner == "" {
			missing = append(missing, "GITHUB_OWNER")
		}
		if r.Repository == "" {
			missing = append(missing, "GITHUB_REPO")
		}
		if r.Token == "" {
			missing = append(missing, "GITHUB_TOKEN")
		}
	case ProviderGCS:
		if r.Bucket == "" {
			missing = append(missing, "GCS_BUCKET")
		}
	default:
		return fmt.Errorf("%w: unknown MIRROR_PROVIDER %q", ErrIncompleteRemote, r.Provider)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteRemote, strings.Join(missing, ", "))
	}
	return nil
}
