// Package reconcile matches locally staged records against server assets by
// structural identity, without relying on server ids being known up front.
package reconcile

import (
	"strings"

	"iseesync/internal/logging"
	"iseesync/internal/models"
)

// Signature identifies an asset by its own name plus the names of its
// ancestors, nearest last. Ancestors whose id cannot be resolved within the
// compared set are dropped, so a subtree pulled from the server compares
// equal to a staged tree that only describes that subtree.
type Signature struct {
	Name      string
	Ancestors string
}

// ancestor names are joined with a separator that cannot appear in asset
// names coming from the API.
const ancestorSep = "\x1f"

func makeSignature(name string, ancestors []string) Signature {
	return Signature{Name: name, Ancestors: strings.Join(ancestors, ancestorSep)}
}

// StagedSignature computes the signature of one staged record within its
// upload batch.
func StagedSignature(record *models.StagedRecord, byUploadID map[int]*models.StagedRecord) Signature {
	var names []string
	for _, uploadID := range record.UploadPath {
		if parent, ok := byUploadID[uploadID]; ok && parent.Name != "" {
			names = append(names, parent.Name)
		}
	}
	return makeSignature(record.Name, names)
}

// ServerSignature computes the signature of one server asset within the
// fetched set.
func ServerSignature(asset *models.Asset, byID map[string]*models.Asset) Signature {
	var names []string
	for _, id := range asset.Path {
		if parent, ok := byID[id]; ok && parent.Name != "" {
			names = append(names, parent.Name)
		}
	}
	return makeSignature(asset.Name, names)
}

// BuildIdentityMap resolves staged upload ids to server asset ids by
// signature equality. Matching is exact and case-sensitive. Records with no
// server counterpart are simply absent from the result. When two records or
// two assets share a signature, the later one wins and a warning is logged.
func BuildIdentityMap(staged []models.StagedRecord, server []models.Asset) map[int]string {
	byUploadID := make(map[int]*models.StagedRecord, len(staged))
	for i := range staged {
		byUploadID[staged[i].UploadID] = &staged[i]
	}

	byServerID := make(map[string]*models.Asset, len(server))
	for i := range server {
		byServerID[server[i].ID] = &server[i]
	}

	localSignatures := make(map[Signature]int, len(staged))
	for i := range staged {
		sig := StagedSignature(&staged[i], byUploadID)
		if prev, dup := localSignatures[sig]; dup {
			logging.Warn().
				Str("name", staged[i].Name).
				Int("upload_id", staged[i].UploadID).
				Int("shadowed_upload_id", prev).
				Msg("duplicate staged signature, keeping the later record")
		}
		localSignatures[sig] = staged[i].UploadID
	}

	serverSignatures := make(map[Signature]string, len(server))
	for i := range server {
		sig := ServerSignature(&server[i], byServerID)
		if prev, dup := serverSignatures[sig]; dup {
			logging.Warn().
				Str("name", server[i].Name).
				Str("asset_id", server[i].ID).
				Str("shadowed_asset_id", prev).
				Msg("duplicate server signature, keeping the later asset")
		}
		serverSignatures[sig] = server[i].ID
	}

	idMap := make(map[int]string)
	for sig, uploadID := range localSignatures {
		if serverID, ok := serverSignatures[sig]; ok {
			idMap[uploadID] = serverID
		}
	}

	logging.Debug().
		Int("staged", len(staged)).
		Int("server", len(server)).
		Int("matched", len(idMap)).
		Msg("identity map built")

	return idMap
}
