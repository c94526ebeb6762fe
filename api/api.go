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

package api

import (
	"github.com/bundle-works/bundle-manager/handler"
)

type Api struct {
	bundleHandler        handler.BundleHandler
	consolidationHandler handler.ConsolidationHandler
	updateHandler        handler.UpdateHandler
	scopeHandler         handler.ScopeHandler
	sourceHandler        handler.SourceHandler
	recordStorageHandler handler.RecordStorageHandler
	jobHandler           handler.JobHandler
}

func New(bundleHandler handler.BundleHandler, consolidationHandler handler.ConsolidationHandler, updateHandler handler.UpdateHandler, scopeHandler handler.ScopeHandler, sourceHandler handler.SourceHandler, recordStorageHandler handler.RecordStorageHandler, jobHandler handler.JobHandler) *Api {
	return &Api{
		bundleHandler:        bundleHandler,
		consolidationHandler: consolidationHandler,
		updateHandler:        updateHandler,
		scopeHandler:         scopeHandler,
		sourceHandler:        sourceHandler,
		recordStorageHandler: recordStorageHandler,
		jobHandler:           jobHandler,
	}
}
