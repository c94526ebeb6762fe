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
	"sort"
)

func SetRoutes(e *gin.Engine, a lib.Api) {
	e.GET("/"+model.BundlesPath, getBundlesH(a))
	e.GET("/"+model.BundlesPath+"/:"+bundleIdParam+"/"+model.BundleVersionsPath, getBundleVersionsH(a))
	e.GET("/"+model.InstalledPath, getInstalledBundlesH(a))
	e.POST("/"+model.InstalledPath, postInstallBundleH(a))
	e.GET("/"+model.InstalledPath+"/:"+bundleIdParam, getInstalledBundleH(a))
	e.DELETE("/"+model.InstalledPath+"/:"+bundleIdParam, deleteInstalledBundleH(a))
	e.GET("/"+model.InstalledPath+"/:"+bundleIdParam+"/"+model.InstalledConflictPath, getScopeConflictH(a))
	e.POST("/"+model.InstalledPath+"/:"+bundleIdParam+"/"+model.InstalledMigratePath, postMigrateBundleH(a))
	e.POST("/"+model.UpdatesPath, postUpdateBundleH(a))
	e.POST("/"+model.UpdatesPath+"/"+model.UpdatesBatchPath, postBatchUpdateH(a))
	e.GET("/"+model.UpdatesPath+"/:"+bundleIdParam, getUpdateInProgressH(a))
	e.GET("/"+model.SourcesPath, getSourcesH(a))
	e.POST("/"+model.SourcesPath, postSourceH(a))
	e.GET("/"+model.SourcesPath+"/:"+sourceIdParam, getSourceH(a))
	e.DELETE("/"+model.SourcesPath+"/:"+sourceIdParam, deleteSourceH(a))
	e.PATCH("/"+model.SourcesPath+"/:"+sourceIdParam+"/"+model.SourcesResyncPath, patchSourceResyncH(a))
	e.GET("/"+model.JobsPath, getJobsH(a))
	e.GET("/"+model.JobsPath+"/:"+jobIdParam, getJobH(a))
	e.PATCH("/"+model.JobsPath+"/:"+jobIdParam+"/"+model.JobsCancelPath, patchJobCancelH(a))
	e.GET("/"+model.HealthCheckPath, getServiceHealthH(a))
}

func GetRoutes(e *gin.Engine) [][2]string {
	routes := e.Routes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	var rInfo [][2]string
	for _, info := range routes {
		rInfo = append(rInfo, [2]string{info.Method, info.Path})
	}
	return rInfo
}
