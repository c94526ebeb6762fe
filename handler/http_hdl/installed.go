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
	"fmt"
	"github.com/bundle-works/bundle-manager/lib"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/gin-gonic/gin"
	"net/http"
)

type installedQuery struct {
	Scope    string `form:"scope"`
	SourceID string `form:"source_id"`
}

type installedScopeQuery struct {
	Scope string `form:"scope"`
}

func getInstalledBundlesH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		query := installedQuery{}
		if err := gc.ShouldBindQuery(&query); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		if query.Scope != "" {
			if _, ok := model.ScopeMap[query.Scope]; !ok {
				_ = gc.Error(model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", query.Scope)))
				return
			}
		}
		installed, err := a.GetInstalledBundles(gc.Request.Context(), model.InstalledFilter{
			Scope:    query.Scope,
			SourceID: query.SourceID,
		})
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, installed)
	}
}

func getInstalledBundleH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		query := installedScopeQuery{}
		if err := gc.ShouldBindQuery(&query); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		installed, err := a.GetInstalledBundle(gc.Request.Context(), gc.Param(bundleIdParam), query.Scope)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, installed)
	}
}

func postInstallBundleH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		var req model.InstallRequest
		if err := gc.ShouldBindJSON(&req); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		jID, err := a.InstallBundle(gc.Request.Context(), req)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.String(http.StatusOK, jID)
	}
}

func deleteInstalledBundleH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		query := installedScopeQuery{}
		if err := gc.ShouldBindQuery(&query); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		jID, err := a.UninstallBundle(gc.Request.Context(), gc.Param(bundleIdParam), query.Scope)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.String(http.StatusOK, jID)
	}
}

func getScopeConflictH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		query := installedScopeQuery{}
		if err := gc.ShouldBindQuery(&query); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		conflict, err := a.CheckScopeConflict(gc.Request.Context(), gc.Param(bundleIdParam), query.Scope)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		if conflict == nil {
			gc.Status(http.StatusNoContent)
			return
		}
		gc.JSON(http.StatusOK, conflict)
	}
}

func postMigrateBundleH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		var req model.MigrateRequest
		if err := gc.ShouldBindJSON(&req); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		req.ID = gc.Param(bundleIdParam)
		jID, err := a.MigrateBundle(gc.Request.Context(), req)
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.String(http.StatusOK, jID)
	}
}
