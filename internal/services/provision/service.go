// Package provision implements bulk asset provisioning against the iSee
// API: pushing staged trees and replacing unlinked measurement points with
// fully configured ones.
package provision

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"iseesync/internal/api"
	"iseesync/internal/logging"
	"iseesync/internal/models"
	"iseesync/internal/services/hierarchy"
	"iseesync/internal/services/reconcile"
	"iseesync/internal/services/taskselect"
)

// defaultSpeed is assumed for measurement points staged without one.
const defaultSpeed = 1500

// Service runs provisioning workflows against one authenticated client.
// The database is optional; without it no audit rows are written.
type Service struct {
	client *api.Client
	db     *gorm.DB
}

func NewService(client *api.Client, db *gorm.DB) *Service {
	return &Service{client: client, db: db}
}

// ReplaceRelink replaces every staged measurement point that matches an
// existing server asset with a new one linked to the transmitter under the
// same parent, assigns it a monitoring task, and deletes the original.
// Records are processed strictly in order; a failing record is recorded and
// skipped, never aborting the batch.
func (s *Service) ReplaceRelink(ctx context.Context, opts Options) (*models.ProvisionRun, error) {
	staged, err := models.LoadStagedRecords(opts.StagingFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load staged records: %w", err)
	}

	server, err := s.client.GetFullHierarchy(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy: %w", err)
	}
	if opts.RootName != "" {
		server = hierarchy.Subtree(server, opts.RootName)
		if server == nil {
			return nil, fmt.Errorf("asset %q not found in hierarchy", opts.RootName)
		}
	}

	idMap := reconcile.BuildIdentityMap(staged, server)
	txByParent := transmitterIndex(server)
	presByName := s.preselectionIndex(ctx)

	run := &models.ProvisionRun{
		ProfileName: opts.ProfileName,
		RootName:    opts.RootName,
		StagingFile: opts.StagingFile,
		DryRun:      opts.DryRun,
		StartedAt:   time.Now().UTC(),
	}
	if s.db != nil {
		if err := s.db.Create(run).Error; err != nil {
			return nil, fmt.Errorf("failed to create run record: %w", err)
		}
	}

	for i := range staged {
		record := &staged[i]
		if record.Type != models.TypeMeasurementPoint {
			continue
		}

		outcome := s.replaceOne(ctx, record, idMap, txByParent, presByName, opts.DryRun)
		outcome.RunID = run.ID
		outcome.UploadID = record.UploadID
		outcome.Name = record.Name

		switch outcome.Status {
		case models.StatusDone:
			run.Done++
		case models.StatusFailed:
			run.Failed++
		default:
			run.Skipped++
		}

		if s.db != nil {
			if err := s.db.Create(&outcome).Error; err != nil {
				logging.Error().Err(err).Str("name", record.Name).Msg("failed to persist record outcome")
			}
		}
	}

	now := time.Now().UTC()
	run.CompletedAt = &now
	if s.db != nil {
		if err := s.db.Save(run).Error; err != nil {
			logging.Error().Err(err).Msg("failed to finalize run record")
		}
	}

	logging.Info().
		Str("run_id", run.ID).
		Int("done", run.Done).
		Int("skipped", run.Skipped).
		Int("failed", run.Failed).
		Bool("dry_run", run.DryRun).
		Msg("replace-relink finished")

	return run, nil
}

// replaceOne handles a single staged measurement point through the
// fetch / link / create / task / delete sequence.
func (s *Service) replaceOne(
	ctx context.Context,
	record *models.StagedRecord,
	idMap map[int]string,
	txByParent map[string]string,
	presByName map[string]string,
	dryRun bool,
) models.ProvisionRecord {
	log := logging.Logger().With().Str("name", record.Name).Int("upload_id", record.UploadID).Logger()

	oldID, ok := idMap[record.UploadID]
	if !ok {
		log.Info().Msg("no matching server asset, skipping")
		return models.ProvisionRecord{Status: models.StatusSkippedNoMatch}
	}

	old, err := s.client.GetAsset(ctx, oldID)
	if err != nil {
		log.Error().Err(err).Str("old_asset_id", oldID).Msg("failed to fetch asset to replace")
		return models.ProvisionRecord{Status: models.StatusFailed, OldAssetID: oldID, Error: err.Error()}
	}
	if old.ETag == "" || len(old.Path) == 0 {
		log.Error().Str("old_asset_id", oldID).Msg("asset is missing etag or path")
		return models.ProvisionRecord{Status: models.StatusFailed, OldAssetID: oldID, Error: "asset is missing etag or path"}
	}

	transmitterID := txByParent[old.ParentID()]
	if transmitterID == "" {
		log.Info().Str("old_asset_id", oldID).Msg("no transmitter under the same parent, skipping")
		return models.ProvisionRecord{Status: models.StatusSkippedNoTransmitter, OldAssetID: oldID}
	}

	speed := defaultSpeed
	if record.Speed != nil {
		speed = *record.Speed
	}

	replacement := &models.Asset{
		Name: record.Name,
		Type: models.TypeMeasurementPoint,
		Path: old.Path,
		Optionals: &models.AssetOptionals{
			Speed:       models.IntPtr(speed),
			Transmitter: transmitterID,
			DNA:         record.DNA,
			TempOnly:    record.TempOnly,
		},
	}

	task := taskselect.Select(taskselect.SignalFor(record.DNA, record.TempOnly), record.Speed)

	if dryRun {
		taskName := "none"
		if task != nil {
			taskName = task.PresName
		}
		log.Info().
			Str("old_asset_id", oldID).
			Str("transmitter", transmitterID).
			Int("speed", speed).
			Str("task", taskName).
			Msg("dry run, would replace")
		return models.ProvisionRecord{Status: models.StatusDone, OldAssetID: oldID}
	}

	created, err := s.client.CreateAsset(ctx, replacement)
	if err != nil {
		log.Error().Err(err).Str("old_asset_id", oldID).Msg("failed to create replacement")
		return models.ProvisionRecord{Status: models.StatusFailed, OldAssetID: oldID, Error: err.Error()}
	}
	log.Info().Str("new_asset_id", created.ID).Msg("replacement created")

	var taskID string
	if task != nil {
		if presID, ok := presByName[task.PresName]; ok {
			task.PresID = presID
		}
		task.Asset = created.ID
		task.Rule.DtStart = time.Now().UTC().UnixMilli()

		createdTask, err := s.client.CreateTask(ctx, task)
		if err != nil {
			log.Error().Err(err).
				Str("old_asset_id", oldID).
				Str("new_asset_id", created.ID).
				Msg("failed to create task, old asset kept for manual cleanup")
			return models.ProvisionRecord{
				Status:     models.StatusFailed,
				OldAssetID: oldID,
				NewAssetID: created.ID,
				Error:      err.Error(),
			}
		}
		taskID = createdTask.ID
		log.Info().Str("task_id", taskID).Str("template", task.PresName).Msg("task assigned")
	} else {
		log.Warn().Msg("no applicable task template, replacement left without a task")
	}

	if err := s.client.DeleteAsset(ctx, oldID, old.ETag); err != nil {
		// Both assets now exist under the same path. The record carries
		// both ids so an operator can resolve the duplicate.
		log.Error().Err(err).
			Str("old_asset_id", oldID).
			Str("new_asset_id", created.ID).
			Msg("replacement created but old asset could not be deleted")
		return models.ProvisionRecord{
			Status:     models.StatusFailed,
			OldAssetID: oldID,
			NewAssetID: created.ID,
			TaskID:     taskID,
			Error:      fmt.Sprintf("old asset not deleted: %v", err),
		}
	}

	log.Info().Str("old_asset_id", oldID).Str("new_asset_id", created.ID).Msg("replacement complete")
	return models.ProvisionRecord{
		Status:     models.StatusDone,
		OldAssetID: oldID,
		NewAssetID: created.ID,
		TaskID:     taskID,
	}
}

// Records returns the per-record outcomes of a run, oldest first.
func (s *Service) Records(runID string) ([]models.ProvisionRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	var records []models.ProvisionRecord
	if err := s.db.Where("run_id = ?", runID).Order("created_at").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load run records: %w", err)
	}
	return records, nil
}

// transmitterIndex maps each parent asset id to the transmitter directly
// beneath it.
func transmitterIndex(assets []models.Asset) map[string]string {
	index := make(map[string]string)
	for i := range assets {
		if assets[i].Type == models.TypeTransmitter && len(assets[i].Path) > 0 {
			index[assets[i].ParentID()] = assets[i].ID
		}
	}
	return index
}

// preselectionIndex resolves template names to the customer database's own
// preselection ids. Lookup failure is not fatal; templates then keep their
// built-in ids.
func (s *Service) preselectionIndex(ctx context.Context) map[string]string {
	preselections, err := s.client.GetPreselections(ctx, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("failed to fetch preselections, using built-in template ids")
		return map[string]string{}
	}
	index := make(map[string]string, len(preselections))
	for _, p := range preselections {
		index[p.Name] = p.ID
	}
	return index
}
