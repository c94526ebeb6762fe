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

package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/SENERGY-Platform/go-cc-job-handler/ccjh"
	"github.com/SENERGY-Platform/go-service-base/srv-base"
	"github.com/SENERGY-Platform/go-service-base/srv-base/types"
	"github.com/bundle-works/bundle-manager/api"
	"github.com/bundle-works/bundle-manager/handler/bundle_hdl"
	"github.com/bundle-works/bundle-manager/handler/consolidation_hdl"
	"github.com/bundle-works/bundle-manager/handler/http_hdl"
	"github.com/bundle-works/bundle-manager/handler/job_hdl"
	"github.com/bundle-works/bundle-manager/handler/lockfile_hdl"
	"github.com/bundle-works/bundle-manager/handler/notification_hdl"
	"github.com/bundle-works/bundle-manager/handler/placement_hdl"
	"github.com/bundle-works/bundle-manager/handler/scope_hdl"
	"github.com/bundle-works/bundle-manager/handler/source_hdl"
	"github.com/bundle-works/bundle-manager/handler/storage_hdl"
	"github.com/bundle-works/bundle-manager/handler/transfer_hdl"
	"github.com/bundle-works/bundle-manager/handler/update_hdl"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util"
	"github.com/bundle-works/bundle-manager/util/db_hdl"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"
)

var version string

func main() {
	srv_base.PrintInfo(model.ServiceName, version)

	flags := util.NewFlags()

	config, err := util.NewConfig(flags.ConfPath)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logFile, err := util.InitLogger(config.Logger)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		var logFileError *srv_base.LogFileError
		if errors.As(err, &logFileError) {
			os.Exit(1)
		}
	}
	if logFile != nil {
		defer logFile.Close()
	}

	util.Logger.Debugf("config: %s", srv_base.ToJsonStr(config))

	ctx, cf := context.WithCancel(context.Background())
	defer cf()

	db, err := db_hdl.NewDB(config.Database.Host, config.Database.Port, config.Database.User, config.Database.Passwd, config.Database.Name)
	if err != nil {
		util.Logger.Error(err)
		return
	}
	defer db.Close()
	if err = db_hdl.InitDB(ctx, db, config.Database.SchemaPath, time.Second*5); err != nil {
		util.Logger.Error(err)
		return
	}

	storageHandler := storage_hdl.New(db)

	transferHandler, err := transfer_hdl.New(config.TransferHandler.WorkdirPath, 0770, time.Duration(config.TransferHandler.Timeout))
	if err != nil {
		util.Logger.Error(err)
		return
	}
	if err = transferHandler.InitWorkspace(); err != nil {
		util.Logger.Error(err)
		return
	}

	placementHandler, err := placement_hdl.New(config.PlacementHandler.UserPath, config.PlacementHandler.WorkspacePath, config.PlacementHandler.RepositoryPath, 0770, transferHandler)
	if err != nil {
		util.Logger.Error(err)
		return
	}
	if err = placementHandler.InitWorkspace(); err != nil {
		util.Logger.Error(err)
		return
	}

	lockfileHandler, err := lockfile_hdl.New(config.LockfileHandler.Path)
	if err != nil {
		util.Logger.Error(err)
		return
	}

	consolidationHandler, err := consolidation_hdl.New(config.ConsolidationHandler.CacheCapacity, nil)
	if err != nil {
		util.Logger.Error(err)
		return
	}

	scopeHandler := scope_hdl.New(storageHandler)

	dbTimeout := time.Duration(config.Database.Timeout)
	bundleHandler := bundle_hdl.New(storageHandler, storageHandler, placementHandler, lockfileHandler, scopeHandler, dbTimeout)
	sourceHandler := source_hdl.New(storageHandler, storageHandler, transferHandler, consolidationHandler, dbTimeout)
	notificationHandler := notification_hdl.New()
	updateHandler := update_hdl.New(bundleHandler, sourceHandler, storageHandler, consolidationHandler, notificationHandler)

	ccHandler := ccjh.New(config.Jobs.BufferSize)
	jobHandler := job_hdl.New(ctx, ccHandler)
	jobCtx, jobCf := context.WithCancel(context.Background())
	defer jobCf()
	go purgeJobs(jobCtx, jobHandler, config.Jobs.MaxAge)

	if err = ccHandler.RunAsync(config.Jobs.MaxNumber, time.Duration(config.Jobs.CCHInterval*1000)); err != nil {
		util.Logger.Error(err)
		return
	}
	defer ccHandler.Stop()

	mApi := api.New(bundleHandler, consolidationHandler, updateHandler, scopeHandler, sourceHandler, storageHandler, jobHandler)

	httpHandler := http_hdl.New(mApi, map[string]string{model.HeaderApiVer: version, model.HeaderSrvName: model.ServiceName})

	listener, err := net.Listen("tcp", ":"+strconv.FormatInt(int64(config.ServerPort), 10))
	if err != nil {
		util.Logger.Error(err)
		return
	}
	srv_base.StartServer(&http.Server{Handler: httpHandler}, listener, srv_base_types.DefaultShutdownSignals)
}

func purgeJobs(ctx context.Context, jobHandler *job_hdl.Handler, maxAge int64) {
	ticker := time.NewTicker(time.Minute * 10)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := jobHandler.PurgeJobs(maxAge); n > 0 {
				util.Logger.Debugf("purged %d jobs", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
