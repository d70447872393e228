// Package hierarchy pulls the asset tree from the iSee API and reshapes it
// into flat tabular views for reporting.
package hierarchy

import (
	"context"
	"fmt"

	"iseesync/internal/api"
	"iseesync/internal/logging"
	"iseesync/internal/models"
)

// Service reads the asset hierarchy through an authenticated API client.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Pull fetches the full hierarchy, excluding the recycle bin.
func (s *Service) Pull(ctx context.Context) ([]models.Asset, error) {
	assets, err := s.client.GetFullHierarchy(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to pull hierarchy: %w", err)
	}
	logging.Info().Int("assets", len(assets)).Msg("hierarchy pulled")
	return assets, nil
}

// PullSubtree fetches the full hierarchy and narrows it to the named root
// and everything beneath it.
func (s *Service) PullSubtree(ctx context.Context, rootName string) ([]models.Asset, error) {
	assets, err := s.Pull(ctx)
	if err != nil {
		return nil, err
	}

	subtree := Subtree(assets, rootName)
	if subtree == nil {
		return nil, fmt.Errorf("asset %q not found in hierarchy", rootName)
	}
	return subtree, nil
}

// Subtree filters assets down to the first node named rootName plus all of
// its descendants. Returns nil when no node carries that name.
func Subtree(assets []models.Asset, rootName string) []models.Asset {
	var rootID string
	for i := range assets {
		if assets[i].Name == rootName {
			rootID = assets[i].ID
			break
		}
	}
	if rootID == "" {
		return nil
	}

	var subtree []models.Asset
	for i := range assets {
		if assets[i].ID == rootID {
			subtree = append(subtree, assets[i])
			continue
		}
		for _, ancestor := range assets[i].Path {
			if ancestor == rootID {
				subtree = append(subtree, assets[i])
				break
			}
		}
	}
	return subtree
}
