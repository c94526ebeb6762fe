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

package http_hdl

import (
	"github.com/bundle-works/bundle-manager/lib"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/gin-gonic/gin"
	"net/http"
)

type updateInProgressResponse struct {
	InProgress bool `json:"in_progress"`
}

func postUpdateBundleH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		var req model.UpdateRequest
		if err := gc.ShouldBindJSON(&req); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		jID, err := a.UpdateBundle(gc.Request.Context(), req)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.String(http.StatusOK, jID)
	}
}

func postBatchUpdateH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		var items []model.BatchUpdateItem
		if err := gc.ShouldBindJSON(&items); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		jID, err := a.AutoUpdateBundles(gc.Request.Context(), items)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.String(http.StatusOK, jID)
	}
}

func getUpdateInProgressH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		inProgress, err := a.IsUpdateInProgress(gc.Request.Context(), gc.Param(bundleIdParam))
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, updateInProgressResponse{InProgress: inProgress})
	}
}
