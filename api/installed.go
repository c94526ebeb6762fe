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
	"context"
	"fmt"
	"github.com/bundle-works/bundle-manager/lib/model"
)

func (a *Api) GetInstalledBundles(ctx context.Context, filter model.InstalledFilter) ([]model.InstalledBundle, error) {
	return a.bundleHandler.List(ctx, filter)
}

func (a *Api) GetInstalledBundle(ctx context.Context, bID string, scope model.Scope) (model.InstalledBundle, error) {
	return a.bundleHandler.Get(ctx, bID, scope)
}

func (a *Api) InstallBundle(_ context.Context, req model.InstallRequest) (string, error) {
	if _, ok := model.ScopeMap[req.Scope]; !ok {
		return "", model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", req.Scope))
	}
	return a.jobHandler.Create(fmt.Sprintf("install bundle '%s'", req.ID), func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		_, err := a.bundleHandler.Install(ctx, req)
		if err == nil {
			err = ctx.Err()
		}
		return err
	})
}

func (a *Api) UninstallBundle(_ context.Context, bID string, scope model.Scope) (string, error) {
	if _, ok := model.ScopeMap[scope]; !ok {
		return "", model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", scope))
	}
	return a.jobHandler.Create(fmt.Sprintf("uninstall bundle '%s'", bID), func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		err := a.bundleHandler.Uninstall(ctx, bID, scope)
		if err == nil {
			err = ctx.Err()
		}
		return err
	})
}
