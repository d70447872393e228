package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"iseesync/internal/models"
)

// GetTopLevels returns the root nodes of the hierarchy.
func (c *Client) GetTopLevels(ctx context.Context) ([]models.Asset, error) {
	var toplevels []models.Asset
	if err := c.get(ctx, "/apiv4/assets/toplevels", nil, &toplevels); err != nil {
		return nil, fmt.Errorf("failed to fetch toplevels: %w", err)
	}
	return toplevels, nil
}

// GetFullHierarchy returns every asset of the customer database with its
// path. With excludeRecycleBin the walk is rooted at the first toplevel node
// so recycled assets are left out.
func (c *Client) GetFullHierarchy(ctx context.Context, excludeRecycleBin bool) ([]models.Asset, error) {
	params := map[string]string{"extra": "path"}

	if excludeRecycleBin {
		toplevels, err := c.GetTopLevels(ctx)
		if err != nil {
			return nil, err
		}
		if len(toplevels) == 0 {
			return []models.Asset{}, nil
		}
		params["parent"] = toplevels[0].ID
	}

	return fetchAllPages[models.Asset](ctx, c, "/api/assets/v0/", params, c.pageSize)
}

// GetAsset retrieves a single asset, including its concurrency token.
func (c *Client) GetAsset(ctx context.Context, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := c.get(ctx, fmt.Sprintf("/apiv4/assets/%s", assetID), nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// CreateAsset creates one asset and returns the server's view of it.
func (c *Client) CreateAsset(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	var created models.Asset
	if err := c.post(ctx, "/apiv4/assets/", asset, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateAssetBatch creates multiple assets in a single request. The endpoint
// is the same as for a single create; the body is a list. Staged records are
// accepted verbatim, so the element type is left open.
func (c *Client) CreateAssetBatch(ctx context.Context, batch any) (string, error) {
	return c.request(ctx, http.MethodPost, "/apiv4/assets/", nil, "", batch, nil)
}

// UpdateAsset patches an asset with a partial payload. The etag is required
// for optimistic locking; a stale one yields a 412 (IsPreconditionFailed).
func (c *Client) UpdateAsset(ctx context.Context, assetID, etag string, patch any) (*models.Asset, error) {
	var updated models.Asset
	endpoint := fmt.Sprintf("/apiv4/assets/%s", assetID)
	if _, err := c.request(ctx, http.MethodPatch, endpoint, nil, etag, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAsset deletes an asset, conditional on its concurrency token.
func (c *Client) DeleteAsset(ctx context.Context, assetID, etag string) error {
	endpoint := fmt.Sprintf("/apiv4/assets/%s", assetID)
	_, err := c.request(ctx, http.MethodDelete, endpoint, nil, etag, nil, nil)
	return err
}

// CreateTask creates a monitoring task bound to a measurement point.
func (c *Client) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	var created models.Task
	if err := c.post(ctx, "/apiv4/tasks/", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetTask reads one task of an asset.
func (c *Client) GetTask(ctx context.Context, assetID, taskID string) (*models.Task, error) {
	var task models.Task
	endpoint := fmt.Sprintf("/apiv4/tasks/%s/task/%s", assetID, taskID)
	if err := c.get(ctx, endpoint, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetPreselections fetches all task templates. When tach is non-nil the
// server-side filter is applied, which also requires explicit sorting.
func (c *Client) GetPreselections(ctx context.Context, tach *bool) ([]models.Preselection, error) {
	params := map[string]string{}
	if tach != nil {
		params["tach"] = strconv.FormatBool(*tach)
		params["sort"] = "_id"
		params["direction"] = "1"
	}
	return fetchAllPages[models.Preselection](ctx, c, "/apiv4/preselections/", params, 100)
}

// TrendResult is one measurement result with its computed statistics.
type TrendResult struct {
	ID         string `json:"_id"`
	Asset      string `json:"asset"`
	AcqEnd     string `json:"acqend"`
	Statistics []struct {
		Status     string   `json:"status"`
		GlobalType string   `json:"global_type"`
		Value      *float64 `json:"value"`
	} `json:"statistics"`
}

// GetTrends retrieves trend results for an asset within a time range.
func (c *Client) GetTrends(ctx context.Context, assetID string, start, end time.Time) ([]TrendResult, error) {
	params := map[string]string{
		"creationfrom": strconv.FormatInt(start.UnixMilli(), 10),
		"creationto":   strconv.FormatInt(end.UnixMilli(), 10),
	}
	var trends []TrendResult
	if err := c.get(ctx, fmt.Sprintf("/apiv4/assets/%s/trends", assetID), params, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// GetLatestResults retrieves the latest results for an asset.
func (c *Client) GetLatestResults(ctx context.Context, assetID string) ([]TrendResult, error) {
	var results []TrendResult
	if err := c.get(ctx, fmt.Sprintf("/apiv4/assets/%s/results/latests", assetID), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetThresholds retrieves the alarm thresholds of a measurement point.
func (c *Client) GetThresholds(ctx context.Context, measurePointID string) (map[string]any, error) {
	var thresholds map[string]any
	if err := c.get(ctx, fmt.Sprintf("/apiv4/assets/%s/thresholds", measurePointID), nil, &thresholds); err != nil {
		return nil, err
	}
	return thresholds, nil
}

// Diagnosis is one diagnosis entry attached to an asset.
type Diagnosis struct {
	ID      string `json:"_id"`
	Asset   string `json:"asset"`
	Status  string `json:"status,omitempty"`
	Comment string `json:"comment,omitempty"`
	Created string `json:"_created,omitempty"`
}

// GetDiagnoses fetches all diagnoses for an asset within a date range.
func (c *Client) GetDiagnoses(ctx context.Context, assetID string, start, end time.Time) ([]Diagnosis, error) {
	params := map[string]string{
		"creationfrom": strconv.FormatInt(start.UnixMilli(), 10),
		"creationto":   strconv.FormatInt(end.UnixMilli(), 10),
	}
	endpoint := fmt.Sprintf("/apiv4/diagnoses/%s", assetID)
	return fetchAllPages[Diagnosis](ctx, c, endpoint, params, c.pageSize)
}

// NetworkNode is one device in the Wi-Care mesh status tree, keyed by MAC.
type NetworkNode struct {
	Type     string                 `json:"type"`
	LastCom  string                 `json:"last_com"`
	Battery  *float64               `json:"batt"`
	Children map[string]NetworkNode `json:"children"`
}

// GetNetworkStatus retrieves the raw wireless network status, one entry per
// gateway.
func (c *Client) GetNetworkStatus(ctx context.Context) ([]map[string]NetworkNode, error) {
	var network []map[string]NetworkNode
	if err := c.get(ctx, "/apiv4/network/", nil, &network); err != nil {
		return nil, err
	}
	return network, nil
}

// ImageUpload is the server's answer to an image upload; Filename goes into
// an asset's optionals.picture.
type ImageUpload struct {
	Filename string `json:"filename"`
}

// UploadImage uploads an image file and returns its server-side metadata.
func (c *Client) UploadImage(ctx context.Context, path string) (*ImageUpload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var upload ImageUpload
	if err := c.uploadFile(ctx, "/apiv4/image/", "file", filepath.Base(path), f, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

// CreateFault creates a new fault associated with an asset.
func (c *Client) CreateFault(ctx context.Context, fault map[string]any) (map[string]any, error) {
	var created map[string]any
	if err := c.post(ctx, "/apiv4/faults/", fault, &created); err != nil {
		return nil, err
	}
	return created, nil
}
