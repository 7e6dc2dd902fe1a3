package storage

import (
	"context"
	"log"
	"os"

	"gemini2api/internal/core"
	"gemini2api/internal/util"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	statsRedisKey   = "gemini2api:stats"
	catalogRedisKey = "gemini2api:models"
)

// FileStorage implements persistence using JSON files. The model catalog is
// stored as raw bytes so a cached catalog can be replayed verbatim.
type FileStorage struct {
	statsPath   string
	catalogPath string
}

func NewFileStorage(statsPath, catalogPath string) *FileStorage {
	if statsPath == "" {
		statsPath = core.StatsFilePath
	}
	if catalogPath == "" {
		catalogPath = core.ModelsCacheFilePath
	}
	return &FileStorage{statsPath: statsPath, catalogPath: catalogPath}
}

func (fs *FileStorage) SaveStats(stats *core.RequestStats) error {
	data, err := sonic.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.statsPath, data, core.FilePermissionReadWrite)
}

func (fs *FileStorage) LoadStats() (*core.RequestStats, error) {
	data, err := os.ReadFile(fs.statsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &core.RequestStats{RequestHistory: []core.RequestRecord{}}, nil
		}
		return nil, err
	}

	var stats core.RequestStats
	if err := sonic.Unmarshal(data, &stats); err != nil {
		return nil, err
	}

	if stats.RequestHistory == nil {
		stats.RequestHistory = []core.RequestRecord{}
	}

	return &stats, nil
}

func (fs *FileStorage) SaveCatalog(data []byte) error {
	return os.WriteFile(fs.catalogPath, data, core.FilePermissionReadWrite)
}

func (fs *FileStorage) LoadCatalog() ([]byte, error) {
	data, err := os.ReadFile(fs.catalogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (fs *FileStorage) ClearCatalog() error {
	if err := os.Remove(fs.catalogPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (fs *FileStorage) Close() error {
	return nil
}

// RedisStorage implements persistence using Redis
type RedisStorage struct {
	client     *redis.Client
	ctx        context.Context
	statsKey   string
	catalogKey string
}

// RedisStorageConfig Redis storage config
type RedisStorageConfig struct {
	URL        string
	StatsKey   string
	CatalogKey string
}

func NewRedisStorage(config RedisStorageConfig) (*RedisStorage, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	_, err = client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	statsKey := config.StatsKey
	if statsKey == "" {
		statsKey = statsRedisKey
	}
	catalogKey := config.CatalogKey
	if catalogKey == "" {
		catalogKey = catalogRedisKey
	}

	log.Printf("[INFO] Successfully connected to Redis")
	return &RedisStorage{client: client, ctx: ctx, statsKey: statsKey, catalogKey: catalogKey}, nil
}

func (rs *RedisStorage) SaveStats(stats *core.RequestStats) error {
	data, err := util.MarshalJSON(stats)
	if err != nil {
		return err
	}
	return rs.client.Set(rs.ctx, rs.statsKey, data, 0).Err()
}

func (rs *RedisStorage) LoadStats() (*core.RequestStats, error) {
	val, err := rs.client.Get(rs.ctx, rs.statsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return &core.RequestStats{RequestHistory: []core.RequestRecord{}}, nil
		}
		return nil, err
	}

	var stats core.RequestStats
	if err := sonic.Unmarshal([]byte(val), &stats); err != nil {
		return nil, err
	}

	if stats.RequestHistory == nil {
		stats.RequestHistory = []core.RequestRecord{}
	}

	return &stats, nil
}

func (rs *RedisStorage) SaveCatalog(data []byte) error {
	return rs.client.Set(rs.ctx, rs.catalogKey, data, 0).Err()
}

func (rs *RedisStorage) LoadCatalog() ([]byte, error) {
	val, err := rs.client.Get(rs.ctx, rs.catalogKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return []byte(val), nil
}

func (rs *RedisStorage) ClearCatalog() error {
	return rs.client.Del(rs.ctx, rs.catalogKey).Err()
}

func (rs *RedisStorage) Close() error {
	return rs.client.Close()
}

// InitStorage initializes storage (returns StorageInterface)
func InitStorage() (core.StorageInterface, error) {
	redisURL := os.Getenv("REDIS_URL")

	if redisURL != "" {
		redisStorage, err := NewRedisStorage(RedisStorageConfig{URL: redisURL})
		if err != nil {
			log.Printf("[WARN] Failed to initialize Redis storage: %v, falling back to file storage", err)
			return NewFileStorage("", ""), nil
		}
		log.Printf("[INFO] Using Redis storage")
		return redisStorage, nil
	}

	log.Printf("[INFO] Using file storage")
	return NewFileStorage("", ""), nil
}
