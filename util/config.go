/*
 * Copyright 2024 InfAI (CC SES)
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package util

import (
	"github.com/SENERGY-Platform/go-service-base/srv-base"
	"github.com/y-du/go-log-level/level"
)

type DatabaseConfig struct {
	Host       string `json:"host" env_var:"DB_HOST"`
	Port       uint   `json:"port" env_var:"DB_PORT"`
	User       string `json:"user" env_var:"DB_USER"`
	Passwd     string `json:"passwd" env_var:"DB_PASSWD"`
	Name       string `json:"name" env_var:"DB_NAME"`
	Timeout    int64  `json:"timeout" env_var:"DB_TIMEOUT"`
	SchemaPath string `json:"schema_path" env_var:"DB_SCHEMA_PATH"`
}

type TransferHandlerConfig struct {
	WorkdirPath string `json:"workdir_path" env_var:"TH_WORKDIR_PATH"`
	Timeout     int64  `json:"timeout" env_var:"TH_TIMEOUT"`
}

type PlacementHandlerConfig struct {
	UserPath       string `json:"user_path" env_var:"PH_USER_PATH"`
	WorkspacePath  string `json:"workspace_path" env_var:"PH_WORKSPACE_PATH"`
	RepositoryPath string `json:"repository_path" env_var:"PH_REPOSITORY_PATH"`
}

type LockfileHandlerConfig struct {
	Path string `json:"path" env_var:"LH_PATH"`
}

type ConsolidationHandlerConfig struct {
	CacheCapacity int `json:"cache_capacity" env_var:"CH_CACHE_CAPACITY"`
}

type JobsConfig struct {
	BufferSize  int   `json:"buffer_size" env_var:"JOBS_BUFFER_SIZE"`
	MaxNumber   int   `json:"max_number" env_var:"JOBS_MAX_NUMBER"`
	CCHInterval int   `json:"cch_interval" env_var:"JOBS_CCH_INTERVAL"`
	MaxAge      int64 `json:"max_age" env_var:"JOBS_MAX_AGE"`
}

type Config struct {
	ServerPort           uint                       `json:"server_port" env_var:"SERVER_PORT"`
	Database             DatabaseConfig             `json:"database" env_var:"DATABASE_CONFIG"`
	TransferHandler      TransferHandlerConfig      `json:"transfer_handler" env_var:"TH_CONFIG"`
	PlacementHandler     PlacementHandlerConfig     `json:"placement_handler" env_var:"PH_CONFIG"`
	LockfileHandler      LockfileHandlerConfig      `json:"lockfile_handler" env_var:"LH_CONFIG"`
	ConsolidationHandler ConsolidationHandlerConfig `json:"consolidation_handler" env_var:"CH_CONFIG"`
	Jobs                 JobsConfig                 `json:"jobs" env_var:"JOBS_CONFIG"`
	Logger               srv_base.LoggerConfig      `json:"logger" env_var:"LOGGER_CONFIG"`
}

func NewConfig(path string) (*Config, error) {
	cfg := Config{
		ServerPort: 80,
		Database: DatabaseConfig{
			Host:       "core-db",
			Port:       3306,
			Name:       "bundle_manager",
			Timeout:    5000000000,
			SchemaPath: "include/storage_schema.sql",
		},
		TransferHandler: TransferHandlerConfig{
			WorkdirPath: "/opt/bundle-manager/transfer",
			Timeout:     30000000000,
		},
		PlacementHandler: PlacementHandlerConfig{
			UserPath:       "/opt/bundle-manager/scopes/user",
			WorkspacePath:  "/opt/bundle-manager/scopes/workspace",
			RepositoryPath: "/opt/bundle-manager/scopes/repository",
		},
		LockfileHandler: LockfileHandlerConfig{
			Path: "/opt/bundle-manager/scopes/repository/bundles.lock",
		},
		ConsolidationHandler: ConsolidationHandlerConfig{
			CacheCapacity: 100,
		},
		Jobs: JobsConfig{
			BufferSize:  50,
			MaxNumber:   10,
			CCHInterval: 500000,
			MaxAge:      3600000000,
		},
		Logger: srv_base.LoggerConfig{
			Level:        level.Warning,
			Utc:          true,
			Microseconds: true,
			Terminal:     true,
		},
	}
	err := srv_base.LoadConfig(&path, &cfg, nil, nil, nil)
	return &cfg, err
}
