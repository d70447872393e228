// Package scheduler runs recurring hierarchy snapshots and provisioning
// passes on cron schedules persisted in the local database.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"iseesync/internal/api"
	"iseesync/internal/config"
	"iseesync/internal/crypto"
	"iseesync/internal/logging"
	"iseesync/internal/models"
	"iseesync/internal/services/hierarchy"
	"iseesync/internal/services/provision"
)

// Service handles scheduled job management and execution.
type Service struct {
	db     *gorm.DB
	cron   *cron.Cron
	jobs   map[string]cron.EntryID // jobID -> cron entry ID
	jobsMu sync.RWMutex
}

// NewService creates a new scheduler service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:   db,
		cron: cron.New(cron.WithSeconds()),
		jobs: make(map[string]cron.EntryID),
	}
}

// Start launches the cron loop and loads enabled jobs from the database.
func (s *Service) Start() error {
	s.cron.Start()

	var jobs []models.ScheduledJob
	if err := s.db.Where("enabled = ?", true).Find(&jobs).Error; err != nil {
		return fmt.Errorf("failed to load scheduled jobs: %w", err)
	}

	for _, job := range jobs {
		if err := s.scheduleJob(&job); err != nil {
			logging.Warn().Err(err).Str("name", job.Name).Msg("failed to schedule job")
		} else {
			logging.Info().Str("name", job.Name).Str("cron", job.Cron).Msg("job scheduled")
		}
	}

	logging.Info().Int("jobs", len(jobs)).Msg("scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		logging.Info().Msg("scheduler stopped")
	}
}

// ListJobs retrieves all scheduled jobs.
func (s *Service) ListJobs() ([]JobListResponse, error) {
	var jobs []models.ScheduledJob
	if err := s.db.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	responses := make([]JobListResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = toJobListResponse(&job)
	}
	return responses, nil
}

// UpsertJob creates or updates a scheduled job keyed by name.
func (s *Service) UpsertJob(req UpsertJobRequest) (string, error) {
	if req.Name == "" || req.JobType == "" || req.Cron == "" {
		return "", fmt.Errorf("name, job_type, and cron are required")
	}
	if req.JobType != JobTypeHierarchySnapshot && req.JobType != JobTypeProvision {
		return "", fmt.Errorf("unknown job type %q", req.JobType)
	}

	normalizedCron, err := normalizeCron(req.Cron)
	if err != nil {
		return "", err
	}
	req.Cron = normalizedCron

	var job models.ScheduledJob
	result := s.db.Where("name = ?", req.Name).First(&job)
	if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query job: %w", result.Error)
	}

	job.Name = req.Name
	job.JobType = req.JobType
	job.Cron = req.Cron
	job.Timezone = req.Timezone
	if job.Timezone == "" {
		job.Timezone = "UTC"
	}
	job.Enabled = req.Enabled

	payloadStr := ""
	if req.Payload != nil {
		if p, ok := req.Payload.(string); ok {
			payloadStr = p
		} else {
			data, err := json.Marshal(req.Payload)
			if err != nil {
				return "", fmt.Errorf("failed to marshal payload: %w", err)
			}
			payloadStr = string(data)
		}
	}
	job.Payload = payloadStr

	schedule, err := cronParser().Parse(job.Cron)
	if err != nil {
		return "", fmt.Errorf("failed to parse cron for next run: %w", err)
	}
	nextRun := schedule.Next(time.Now())
	job.NextRunAt = &nextRun

	if result.Error == gorm.ErrRecordNotFound {
		if err := s.db.Create(&job).Error; err != nil {
			return "", fmt.Errorf("failed to create job: %w", err)
		}
	} else {
		if err := s.db.Save(&job).Error; err != nil {
			return "", fmt.Errorf("failed to update job: %w", err)
		}
	}

	if err := s.rescheduleJob(job.ID); err != nil {
		return "", fmt.Errorf("failed to reschedule job: %w", err)
	}
	return job.ID, nil
}

// DeleteJob removes a scheduled job.
func (s *Service) DeleteJob(jobID string) error {
	s.jobsMu.Lock()
	if entryID, exists := s.jobs[jobID]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, jobID)
	}
	s.jobsMu.Unlock()

	if err := s.db.Delete(&models.ScheduledJob{}, "id = ?", jobID).Error; err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// RunJobNow executes a job immediately, outside its schedule.
func (s *Service) RunJobNow(jobID string) error {
	var job models.ScheduledJob
	if err := s.db.First(&job, "id = ?", jobID).Error; err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	s.executeJob(job.ID)
	return nil
}

// scheduleJob adds an enabled job to the cron scheduler.
func (s *Service) scheduleJob(job *models.ScheduledJob) error {
	if !job.Enabled {
		return nil
	}

	s.jobsMu.Lock()
	if entryID, exists := s.jobs[job.ID]; exists {
		s.cron.Remove(entryID)
	}
	s.jobsMu.Unlock()

	jobID := job.ID
	entryID, err := s.cron.AddFunc(job.Cron, func() {
		s.executeJob(jobID)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.jobsMu.Lock()
	s.jobs[job.ID] = entryID
	s.jobsMu.Unlock()
	return nil
}

// rescheduleJob reloads a job from the database and reschedules it.
func (s *Service) rescheduleJob(jobID string) error {
	var job models.ScheduledJob
	if err := s.db.First(&job, "id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			s.jobsMu.Lock()
			if entryID, exists := s.jobs[jobID]; exists {
				s.cron.Remove(entryID)
				delete(s.jobs, jobID)
			}
			s.jobsMu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to load job: %w", err)
	}
	return s.scheduleJob(&job)
}

// executeJob runs one scheduled job and updates its run bookkeeping.
func (s *Service) executeJob(jobID string) {
	log := logging.Logger().With().Str("job_id", jobID).Logger()

	var job models.ScheduledJob
	if err := s.db.First(&job, "id = ?", jobID).Error; err != nil {
		log.Error().Err(err).Msg("failed to load job")
		return
	}
	log = log.With().Str("name", job.Name).Str("type", job.JobType).Logger()
	log.Info().Msg("executing scheduled job")

	now := time.Now()
	job.LastRunAt = &now
	if schedule, err := cronParser().Parse(job.Cron); err != nil {
		log.Warn().Err(err).Msg("failed to parse cron for next run")
	} else {
		nextRun := schedule.Next(now)
		job.NextRunAt = &nextRun
	}
	if err := s.db.Save(&job).Error; err != nil {
		log.Warn().Err(err).Msg("failed to update job run times")
	}

	switch job.JobType {
	case JobTypeHierarchySnapshot:
		var payload HierarchySnapshotPayload
		if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
			log.Error().Err(err).Msg("invalid job payload")
			return
		}
		if err := s.runHierarchySnapshot(payload); err != nil {
			log.Error().Err(err).Msg("hierarchy snapshot failed")
			return
		}
	case JobTypeProvision:
		var payload ProvisionPayload
		if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
			log.Error().Err(err).Msg("invalid job payload")
			return
		}
		if err := s.runProvision(payload); err != nil {
			log.Error().Err(err).Msg("provision job failed")
			return
		}
	default:
		log.Warn().Msg("unknown job type")
		return
	}

	log.Info().Msg("scheduled job completed")
}

// runHierarchySnapshot pulls the asset tree and writes the flattened CSV.
func (s *Service) runHierarchySnapshot(payload HierarchySnapshotPayload) error {
	if payload.ProfileName == "" || payload.OutputPath == "" {
		return fmt.Errorf("profile_name and output_path are required")
	}

	ctx := context.Background()
	client, err := s.loginClient(ctx, payload.ProfileName)
	if err != nil {
		return err
	}

	svc := hierarchy.NewService(client)
	var assets []models.Asset
	if payload.RootName != "" {
		assets, err = svc.PullSubtree(ctx, payload.RootName)
	} else {
		assets, err = svc.Pull(ctx)
	}
	if err != nil {
		return err
	}

	if err := hierarchy.Flatten(assets).SaveCSV(payload.OutputPath); err != nil {
		return err
	}
	logging.Info().Str("path", payload.OutputPath).Int("assets", len(assets)).Msg("hierarchy snapshot written")
	return nil
}

// runProvision executes a replace-relink pass.
func (s *Service) runProvision(payload ProvisionPayload) error {
	if payload.ProfileName == "" || payload.StagingFile == "" {
		return fmt.Errorf("profile_name and staging_file are required")
	}

	ctx := context.Background()
	client, err := s.loginClient(ctx, payload.ProfileName)
	if err != nil {
		return err
	}

	svc := provision.NewService(client, s.db)
	_, err = svc.ReplaceRelink(ctx, provision.Options{
		ProfileName: payload.ProfileName,
		RootName:    payload.RootName,
		StagingFile: payload.StagingFile,
		DryRun:      payload.DryRun,
	})
	return err
}

// loginClient builds an authenticated client from a stored profile.
func (s *Service) loginClient(ctx context.Context, profileName string) (*api.Client, error) {
	var profile models.ConnectionProfile
	if err := s.db.First(&profile, "name = ?", profileName).Error; err != nil {
		return nil, fmt.Errorf("profile %q not found: %w", profileName, err)
	}

	password, err := crypto.DecryptPassword(profile.PasswordEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt password: %w", err)
	}

	client := api.NewClient(config.Region(profile.Region).BaseURL(), profile.Username, password)
	if _, err := client.Login(ctx, profile.CustomerDB); err != nil {
		return nil, err
	}
	return client, nil
}

func cronParser() cron.Parser {
	return cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// normalizeCron converts 5-field cron to 6-field format by prepending seconds.
// 5-field: "minute hour day month dow" (standard cron)
// 6-field: "second minute hour day month dow" (robfig/cron with WithSeconds)
func normalizeCron(cronExpr string) (string, error) {
	cronExpr = strings.TrimSpace(cronExpr)

	fields := strings.Fields(cronExpr)
	if len(fields) == 6 {
		if _, err := cronParser().Parse(cronExpr); err == nil {
			return cronExpr, nil
		}
	}

	if len(fields) == 5 {
		if _, err := cron.ParseStandard(cronExpr); err != nil {
			return "", fmt.Errorf("invalid 5-field cron expression: %w", err)
		}
		// Prepend seconds (0 = run at 0 seconds of the minute)
		return "0 " + cronExpr, nil
	}

	return "", fmt.Errorf("invalid cron expression: expected 5 or 6 fields, got %d", len(fields))
}

func toJobListResponse(job *models.ScheduledJob) JobListResponse {
	resp := JobListResponse{
		ID:        job.ID,
		Name:      job.Name,
		JobType:   job.JobType,
		Cron:      job.Cron,
		Timezone:  job.Timezone,
		Enabled:   job.Enabled,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
	}
	if job.LastRunAt != nil {
		lastRun := job.LastRunAt.Format(time.RFC3339)
		resp.LastRunAt = &lastRun
	}
	if job.NextRunAt != nil {
		nextRun := job.NextRunAt.Format(time.RFC3339)
		resp.NextRun = &nextRun
	}
	return resp
}
