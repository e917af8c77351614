package storage

import (
	"IAmFine/storage/database"
	"IAmFine/storage/mq"
	"IAmFine/storage/redis"
)

// Init brings up all storage-layer connections.
func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if err := mq.Init(); err != nil {
		return err
	}

	return nil
}
