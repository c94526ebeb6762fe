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

const sourceIdParam = "s"

func getSourcesH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		sources, err := a.GetSources(gc.Request.Context())
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, sources)
	}
}

func getSourceH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		source, err := a.GetSource(gc.Request.Context(), gc.Param(sourceIdParam))
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.JSON(http.StatusOK, source)
	}
}

func postSourceH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		var req model.SourceRequest
		if err := gc.ShouldBindJSON(&req); err != nil {
			_ = gc.Error(model.NewInvalidInputError(err))
			return
		}
		if err := a.AddSource(gc.Request.Context(), req); err != nil {
			_ = gc.Error(err)
			return
		}
		gc.Status(http.StatusOK)
	}
}

func deleteSourceH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		if err := a.DeleteSource(gc.Request.Context(), gc.Param(sourceIdParam)); err != nil {
			_ = gc.Error(err)
			return
		}
		gc.Status(http.StatusOK)
	}
}

func patchSourceResyncH(a lib.Api) gin.HandlerFunc {
	return func(gc *gin.Context) {
		jID, err := a.ResyncSource(gc.Request.Context(), gc.Param(sourceIdParam))
		if err != nil {
			_ = gc.Error(err)
			return
		}
		gc.String(http.StatusOK, jID)
	}
}
