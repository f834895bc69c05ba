package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultName = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// STORAGE_DISK picks the default.
func Connect(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	disks["local"] = NewLocal(config.StorageLocalRoot(), config.StorageURL())

	if bucket := config.StorageS3Bucket(); bucket != "" {
		d, err := NewS3(ctx, S3Config{
			Bucket:   bucket,
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	name := config.StorageDefault()
	if _, ok := disks[name]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", name)
	}
	defaultName = name
	return nil
}

// Register plugs in a disk; tests use it with a temp-dir Local.
func Register(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
}

// SetDefault selects the default disk by name.
func SetDefault(name string) {
	mu.Lock()
	defer mu.Unlock()
	defaultName = name
}

// Use returns the named disk, or nil if it is not configured.
func Use(name string) Disk {
	mu.RLock()
	defer mu.RUnlock()
	return disks[name]
}

// Default returns the default disk, booting a local disk on first use.
func Default() Disk {
	mu.RLock()
	d := disks[defaultName]
	mu.RUnlock()
	if d != nil {
		return d
	}

	mu.Lock()
	defer mu.Unlock()
	if disks["local"] == nil {
		disks["local"] = NewLocal(config.StorageLocalRoot(), config.StorageURL())
	}
	if disks[defaultName] == nil {
		defaultName = "local"
	}
	return disks[defaultName]
}
