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

const bundleIdParam = "b"

type bundlesQuery struct {
	ID       string `form:"id"`
	SourceID string `form:"source_id"`
}

func getBundlesH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		query := bundlesQuery{}
		if err := gc.ShouldBindQuery(&query); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		bundles, err := a.GetBundles(gc.Request.Context(), model.RecordFilter{
			ID:       query.ID,
			SourceID: query.SourceID,
		})
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, bundles)
	}
}

func getBundleVersionsH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		versions, err := a.GetBundleVersions(gc.Request.Context(), gc.Param(bundleIdParam))
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, versions)
	}
}
