package provision

import (
	"context"
	"fmt"

	"iseesync/internal/logging"
	"iseesync/internal/models"
)

// PushStagedBatch sends a whole staged file to the server in one batch
// create. The server resolves upload_id references into real ids, so the
// records go over the wire as authored.
func (s *Service) PushStagedBatch(ctx context.Context, stagingFile string) (string, error) {
	staged, err := models.LoadStagedRecords(stagingFile)
	if err != nil {
		return "", fmt.Errorf("failed to load staged records: %w", err)
	}
	if len(staged) == 0 {
		return "", fmt.Errorf("staging file %s contains no records", stagingFile)
	}

	response, err := s.client.CreateAssetBatch(ctx, staged)
	if err != nil {
		return "", fmt.Errorf("batch create failed: %w", err)
	}

	logging.Info().Int("records", len(staged)).Msg("staged batch pushed")
	return response, nil
}

// PushTree scaffolds one machine under the named parent: the machine itself,
// a transmitter, a measurement point linked to that transmitter, and one
// channel under the transmitter. Assets are created top-down so each child
// can reference its parent's fresh id.
func (s *Service) PushTree(ctx context.Context, opts TreeOptions) (*models.Asset, error) {
	assets, err := s.client.GetFullHierarchy(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy: %w", err)
	}

	var parent *models.Asset
	for i := range assets {
		if assets[i].Name == opts.ParentName {
			parent = &assets[i]
			break
		}
	}
	if parent == nil {
		return nil, fmt.Errorf("parent asset %q not found", opts.ParentName)
	}

	machine := &models.Asset{
		Name: opts.MachineName,
		Type: models.TypeMachine,
		Path: append(append([]string(nil), parent.Path...), parent.ID),
		Optionals: &models.AssetOptionals{
			Criticality:   models.IntPtr(3),
			EquipmentType: models.IntPtr(101),
			Speed:         models.IntPtr(defaultSpeed),
		},
	}

	if opts.ImagePath != "" {
		upload, err := s.client.UploadImage(ctx, opts.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("failed to upload machine picture: %w", err)
		}
		machine.Optionals.Picture = upload.Filename
	}

	createdMachine, err := s.client.CreateAsset(ctx, machine)
	if err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}
	machinePath := append(append([]string(nil), machine.Path...), createdMachine.ID)
	logging.Info().Str("asset_id", createdMachine.ID).Str("name", machine.Name).Msg("machine created")

	transmitter := &models.Asset{
		Name: opts.TransmitterName,
		Type: models.TypeTransmitter,
		Path: machinePath,
		Optionals: &models.AssetOptionals{
			MAC:          opts.TransmitterMAC,
			SerialNumber: opts.SerialNumber,
		},
	}
	createdTransmitter, err := s.client.CreateAsset(ctx, transmitter)
	if err != nil {
		return nil, fmt.Errorf("failed to create transmitter: %w", err)
	}
	logging.Info().Str("asset_id", createdTransmitter.ID).Msg("transmitter created")

	mp := &models.Asset{
		Name: opts.MachineName + " - MP",
		Type: models.TypeMeasurementPoint,
		Path: machinePath,
		Optionals: &models.AssetOptionals{
			Speed:       models.IntPtr(defaultSpeed),
			Transmitter: createdTransmitter.ID,
		},
	}
	if _, err := s.client.CreateAsset(ctx, mp); err != nil {
		return nil, fmt.Errorf("failed to create measurement point: %w", err)
	}

	channel := &models.Asset{
		Name: opts.MachineName + " - CH1",
		Type: models.TypeChannel,
		Path: append(append([]string(nil), machinePath...), createdTransmitter.ID),
		Optionals: &models.AssetOptionals{
			Channel:    models.IntPtr(1),
			SensorType: models.IntPtr(7),
		},
	}
	if _, err := s.client.CreateAsset(ctx, channel); err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	logging.Info().Str("machine_id", createdMachine.ID).Msg("tree push complete")
	return createdMachine, nil
}
