// Package profiling ships continuous profiles of the client process to a
// pyroscope server. Background work is labelled with Do so its samples can
// be told apart from request handling.
package profiling

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/config"
	"github.com/getmentor/mentor-match-client/pkg/logger"
)

const (
	defaultAppName        = "mentor-match-client"
	defaultSampleTypes    = "cpu,alloc_space,goroutines"
	defaultUploadInterval = 15 * time.Second

	// Sampling rates used only when lock profiles are requested
	mutexProfileFraction = 5
	blockProfileRate     = 5
)

var sampleTypes = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// Target identifies the running client in the profile store
type Target struct {
	Service     string
	Namespace   string
	Version     string
	Instance    string
	Environment string
}

func (t Target) tags() map[string]string {
	tags := map[string]string{}
	for key, value := range map[string]string{
		"service_name":    t.Service,
		"namespace":       t.Namespace,
		"service_version": t.Version,
		"instance":        t.Instance,
		"environment":     t.Environment,
	} {
		if value = strings.TrimSpace(value); value != "" {
			tags[key] = value
		}
	}
	return tags
}

// Start begins profiling when enabled. The returned function stops it and
// is safe to call when profiling is off.
func Start(cfg config.ProfilingConfig, target Target) (func(), error) {
	if !cfg.Enabled {
		logger.Debug("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	types, err := profileTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}
	restoreRates := enableLockProfiles(types)

	uploadRate := time.Duration(cfg.UploadIntervalSeconds) * time.Second
	if uploadRate <= 0 {
		uploadRate = defaultUploadInterval
	}

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = defaultAppName
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   endpoint,
		Tags:            target.tags(),
		UploadRate:      uploadRate,
		ProfileTypes:    types,
	})
	if err != nil {
		restoreRates()
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("application_name", appName),
		zap.String("endpoint", endpoint),
		zap.Int("profile_types", len(types)),
		zap.Duration("upload_rate", uploadRate))

	return func() {
		if err := profiler.Stop(); err != nil {
			logger.Error("Failed to stop profiler", zap.Error(err))
		}
		restoreRates()
	}, nil
}

// Do runs fn with the work kind and name attached to every sample taken
// meanwhile. Without a running profiler the labels are simply unused.
func Do(ctx context.Context, kind, name string, fn func(context.Context)) {
	pyroscope.TagWrapper(ctx, pyroscope.Labels("work", kind, "name", name), fn)
}

func profileTypes(value string) ([]pyroscope.ProfileType, error) {
	if strings.TrimSpace(value) == "" {
		value = defaultSampleTypes
	}

	var types []pyroscope.ProfileType
	for _, raw := range strings.Split(value, ",") {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" {
			continue
		}
		mapped, ok := sampleTypes[key]
		if !ok {
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
		}
		for _, t := range mapped {
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
	}

	if len(types) == 0 {
		return profileTypes(defaultSampleTypes)
	}
	return types, nil
}

// enableLockProfiles turns on the runtime sampling that mutex and block
// profiles need and returns a function restoring the previous rates
func enableLockProfiles(types []pyroscope.ProfileType) func() {
	restore := []func(){}
	if slices.Contains(types, pyroscope.ProfileMutexCount) {
		previous := runtime.SetMutexProfileFraction(mutexProfileFraction)
		restore = append(restore, func() { runtime.SetMutexProfileFraction(previous) })
	}
	if slices.Contains(types, pyroscope.ProfileBlockCount) {
		runtime.SetBlockProfileRate(blockProfileRate)
		restore = append(restore, func() { runtime.SetBlockProfileRate(0) })
	}

	return func() {
		for _, fn := range restore {
			fn()
		}
	}
}
