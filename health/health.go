// Package health reports service liveness: database connectivity with ping
// round-trip time plus host CPU, memory, and disk usage.
package health

import (
	"context"
	"math"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/luminos-labs/accountd"
)

// Database connection states, mirrored in the report.
const (
	StateDisconnected = 0
	StateConnected    = 1
)

const (
	cpuUnhealthyPercent = 90
	memUnhealthyFree    = 1 << 30 // 1 GiB
)

// DatabaseStatus describes the store connection.
type DatabaseStatus struct {
	Name           string `json:"name"`
	State          int    `json:"state"`
	Status         string `json:"status"`
	ResponseTimeMS int64  `json:"responseTime,omitempty"`
}

// CPUStatus describes processor load.
type CPUStatus struct {
	UsagePercent float64 `json:"usage"`
	Cores        int     `json:"cores"`
}

// MemoryStatus describes memory pressure.
type MemoryStatus struct {
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

// DiskStatus describes root filesystem usage.
type DiskStatus struct {
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

// SystemStatus groups the host metrics.
type SystemStatus struct {
	CPU    CPUStatus    `json:"cpu"`
	Memory MemoryStatus `json:"memory"`
	Disk   DiskStatus   `json:"disk"`
}

// Report is the full health payload.
type Report struct {
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	Timestamp     string         `json:"timestamp"`
	UptimeSeconds float64        `json:"uptime"`
	Database      DatabaseStatus `json:"database"`
	System        SystemStatus   `json:"system"`
}

// Healthy reports whether the service should answer 200.
func (r Report) Healthy() bool {
	return r.Status == "healthy"
}

// Service collects health reports.
type Service struct {
	db      *mongo.Database
	logger  accountd.Logger
	started time.Time
}

// NewService returns a health service; uptime counts from this call.
func NewService(db *mongo.Database, logger accountd.Logger) *Service {
	return &Service{
		db:      db,
		logger:  logger,
		started: time.Now(),
	}
}

// GetHealth builds a point-in-time report. Metric collection failures
// degrade the report instead of failing it.
func (s *Service) GetHealth(ctx context.Context) Report {
	dbStatus := s.databaseStatus(ctx)
	system := s.systemStatus(ctx)

	healthy := dbStatus.State == StateConnected &&
		system.CPU.UsagePercent < cpuUnhealthyPercent &&
		system.Memory.Free > memUnhealthyFree

	report := Report{
		Status:        "healthy",
		Message:       "System is healthy",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: time.Since(s.started).Seconds(),
		Database:      dbStatus,
		System:        system,
	}

	if !healthy {
		report.Status = "unhealthy"
		report.Message = "System health check detected issues"
	}

	return report
}

func (s *Service) databaseStatus(ctx context.Context) DatabaseStatus {
	status := DatabaseStatus{
		State:  StateDisconnected,
		Status: "disconnected",
	}

	if s.db == nil {
		return status
	}

	status.Name = s.db.Name()

	start := time.Now()
	if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		s.logger.Error("Health database ping failed: %v", err)
		return status
	}

	status.State = StateConnected
	status.Status = "connected"
	status.ResponseTimeMS = time.Since(start).Milliseconds()
	return status
}

func (s *Service) systemStatus(ctx context.Context) SystemStatus {
	var system SystemStatus

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		system.CPU.UsagePercent = round2(percents[0])
	} else if err != nil {
		s.logger.Warn("Health cpu usage unavailable: %v", err)
	}

	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		system.CPU.Cores = cores
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		system.Memory = MemoryStatus{
			Total:       vm.Total,
			Free:        vm.Available,
			Used:        vm.Used,
			UsedPercent: round2(vm.UsedPercent),
		}
	} else {
		s.logger.Warn("Health memory stats unavailable: %v", err)
	}

	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		system.Disk = DiskStatus{
			Total:       du.Total,
			Free:        du.Free,
			Used:        du.Used,
			UsedPercent: round2(du.UsedPercent),
		}
	} else {
		s.logger.Warn("Health disk stats unavailable: %v", err)
	}

	return system
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
